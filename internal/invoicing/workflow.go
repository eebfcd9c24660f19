package invoicing

import (
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"community_pledge_system/configs"
	"community_pledge_system/internal"
	"community_pledge_system/internal/lifecycle"
	"community_pledge_system/internal/notifications"
	"community_pledge_system/internal/services"
	"community_pledge_system/internal/store/models"
	"community_pledge_system/internal/store/repositories"
)

const (
	dgrInvoicePrefix     = "Gift/Donation for: "
	projectInvoicePrefix = "Project pledge: "
	invoiceMetadata      = "Automatically added via api"

	invoiceDueDays = 14
)

// InvoiceName is the finance-side name shared by every invoice raised for a
// project. Reconciliation matches invoices back to projects by this name, so
// it must stay a pure function of the record.
func InvoiceName(p *models.Project) string {
	if p.DGR {
		return dgrInvoicePrefix + p.Title
	}
	return projectInvoicePrefix + p.Title
}

// Workflow drives the finance side of a funded project: syncing the member
// cache from TidyHQ contacts, raising one invoice per pledge and notifying
// everyone involved.
type Workflow struct {
	projects   repositories.ProjectRepository
	members    repositories.MemberRepository
	tidyhq     services.TidyHQService
	dispatcher *notifications.Dispatcher

	app    configs.App
	config configs.TidyHQ
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewWorkflow(
	projects repositories.ProjectRepository,
	members repositories.MemberRepository,
	tidyhq services.TidyHQService,
	dispatcher *notifications.Dispatcher,
	app configs.App,
	config configs.TidyHQ,
	logger *zap.SugaredLogger,
) *Workflow {
	return &Workflow{
		projects:   projects,
		members:    members,
		tidyhq:     tidyhq,
		dispatcher: dispatcher,
		app:        app,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// SyncMembers pulls TidyHQ contacts and adds every contact that carries a
// Telegram id to the member cache. The cache is append-only: contacts that
// disappear from TidyHQ keep their cached mapping.
func (w *Workflow) SyncMembers() error {
	contacts, err := w.tidyhq.ListContacts()
	if err != nil {
		return errors.Wrap(err, "failed to list tidyhq contacts")
	}

	known, err := w.members.GetMany()
	if err != nil {
		return err
	}

	knownIDs := make(map[string]bool, len(known))
	for _, member := range known {
		knownIDs[member.ID] = true
	}

	added := 0
	for _, contact := range contacts {
		for _, field := range contact.CustomFields {
			if field.ID != w.config.TelegramIDFieldID {
				continue
			}

			memberID := field.StringValue()
			if memberID == "" || knownIDs[memberID] {
				continue
			}

			member := &models.Member{
				ID:          memberID,
				DisplayName: contact.DisplayName,
				Handle:      contact.NickName,
				ContactID:   contact.ContactID,
			}
			if _, err := w.members.Put(member); err != nil {
				return err
			}

			knownIDs[memberID] = true
			added++
		}
	}

	if added > 0 {
		w.logger.Infow("synced members from tidyhq", "contacts", len(contacts), "added", added)
	}
	return nil
}

// SendInvoices raises one invoice per pledge and stamps the project as
// invoiced. The guard check, the invoice creation and the stamp all happen
// under the project's mutation lock, so a second concurrent attempt observes
// the stamp and raises nothing. The returned outcome string is suitable for
// showing to the operator who triggered the run.
func (w *Workflow) SendInvoices(projectID string) (string, error) {
	if err := w.SyncMembers(); err != nil {
		return outcomeError(err), err
	}

	members, err := w.memberIndex()
	if err != nil {
		return outcomeError(err), err
	}

	organization, err := w.tidyhq.Organization()
	if err != nil {
		err = errors.Wrap(err, "failed to load tidyhq organization")
		return outcomeError(err), err
	}

	var intents []notifications.Intent

	_, err = w.projects.Mutate(projectID, func(p *models.Project) error {
		if p.InvoicesSentAt != 0 {
			return &lifecycle.AlreadyProcessedError{SentAt: p.InvoicesSentAt}
		}

		pledgers := sortedPledgers(p)
		for _, pledger := range pledgers {
			if !members[pledger].Resolved() {
				return &lifecycle.UnresolvedMemberError{MemberID: pledger}
			}
		}

		batch, err := w.raiseInvoices(p, pledgers, members, organization)
		if err != nil {
			return err
		}

		intents = batch
		p.InvoicesSentAt = w.now().Unix()
		return nil
	})
	if err != nil {
		return outcomeError(err), err
	}

	w.dispatcher.Dispatch(intents)
	w.logger.Infow("invoices sent", "project", projectID)
	return "Success: Invoices sent.", nil
}

// raiseInvoices creates the TidyHQ invoices and computes the notifications
// for a successful run. A creation failure aborts the batch; invoices
// already raised stay raised and the project stays unstamped, the same as a
// partial manual run.
func (w *Workflow) raiseInvoices(
	p *models.Project,
	pledgers []string,
	members map[string]*models.Member,
	organization *services.Organization,
) ([]notifications.Intent, error) {
	categoryID := w.config.ProjectCategoryID
	donorSuffix := ""
	adminSuffix := "\nThese invoices have *not* been marked as tax deductible."
	if p.DGR {
		categoryID = w.config.DGRCategoryID
		donorSuffix = fmt.Sprintf("\nAs a reminder your donation to this project is [tax deductible](%s).", w.app.TaxInfoURL)
		adminSuffix = fmt.Sprintf("\nThese invoices have been marked as [tax deductible](%s).", w.app.TaxInfoURL)
	}

	var intents []notifications.Intent

	adminText := fmt.Sprintf("Invoices for %s have been created: ", p.Title)
	sentTotal := 0

	for _, pledger := range pledgers {
		member := members[pledger]
		amount := p.Pledges[pledger]

		invoice, err := w.tidyhq.CreateInvoice(services.InvoiceRequest{
			Reference:  p.Title,
			Name:       InvoiceName(p),
			Amount:     amount,
			DueDate:    w.now().AddDate(0, 0, invoiceDueDays),
			CategoryID: categoryID,
			ContactID:  member.ContactID,
			Metadata:   invoiceMetadata,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create invoice for %s", member.DisplayName)
		}

		w.logger.Infow("invoice created",
			"project", p.ID, "member", pledger, "amount", invoice.Amount, "invoice", invoice.ID)

		adminText += fmt.Sprintf("\n• $%d for @%s - [%s](%s)",
			int(invoice.Amount), member.Handle, invoice.ID, organization.InvoiceURL(invoice.ID))
		sentTotal += int(invoice.Amount)

		intents = append(intents, notifications.Intent{
			Kind:     notifications.KindDirectMessage,
			MemberID: pledger,
			Text: fmt.Sprintf(
				"The funding goal for %s has been met. I've created an invoice for $%d which you can find [here](%s).%s",
				p.Title, amount, organization.PublicInvoiceURL(invoice.ID), donorSuffix),
		})
	}

	intents = append(intents, notifications.Intent{
		Kind:     notifications.KindDirectMessage,
		MemberID: p.CreatedBy,
		Text: fmt.Sprintf(
			"The funding goal for a project you created (%s) has been met and invoices have been sent out. Please contact the Treasurer for the next steps.",
			p.Title),
	})

	adminText += fmt.Sprintf("\n\nProject goal: $%d", p.Total)
	adminText += fmt.Sprintf("\nTotal sent: $%d", sentTotal)
	adminText += adminSuffix
	adminText += fmt.Sprintf(
		"\n\nA notification has also been sent to %s as the project creator. They've been asked to contact the Treasurer for the next steps.",
		internal.Mention(p.CreatedBy))

	intents = append(intents, notifications.Intent{
		Kind:   notifications.KindAdminMessage,
		ChatID: w.app.AdminChannelID,
		Text:   adminText,
	})

	return intents, nil
}

func (w *Workflow) memberIndex() (map[string]*models.Member, error) {
	members, err := w.members.GetMany()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Member, len(members))
	for _, member := range members {
		byID[member.ID] = member
	}
	return byID, nil
}

func outcomeError(err error) string {
	return "Error: " + err.Error()
}

func sortedPledgers(p *models.Project) []string {
	pledgers := make([]string, 0, len(p.Pledges))
	for member := range p.Pledges {
		pledgers = append(pledgers, member)
	}
	sort.Strings(pledgers)
	return pledgers
}
