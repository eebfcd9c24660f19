package invoicing

import (
	"fmt"

	"github.com/pkg/errors"

	"community_pledge_system/internal/notifications"
	"community_pledge_system/internal/services"
	"community_pledge_system/internal/store/models"
)

// paymentSummary partitions a project's invoices into paid and unpaid.
// Totals are whole dollars: paid counts settled amounts, unpaid counts what
// is still due.
type paymentSummary struct {
	paid        []services.Invoice
	paidTotal   int
	unpaid      []services.Invoice
	unpaidTotal int
}

func (s paymentSummary) settled(target int) bool {
	return s.paidTotal >= target
}

// Reconcile walks every project that has been funded but not yet reconciled,
// matches TidyHQ invoices back to it by name and stamps the project once the
// paid total covers the funding target. With includeUnpaid set, projects
// with outstanding invoices are also reported to the admin audience.
func (w *Workflow) Reconcile(includeUnpaid bool) error {
	invoices, err := w.tidyhq.ListInvoices()
	if err != nil {
		return errors.Wrap(err, "failed to list tidyhq invoices")
	}

	contacts, err := w.tidyhq.ListContacts()
	if err != nil {
		return errors.Wrap(err, "failed to list tidyhq contacts")
	}

	contactsByID := make(map[int]services.Contact, len(contacts))
	for _, contact := range contacts {
		contactsByID[contact.ID] = contact
	}

	organization, err := w.tidyhq.Organization()
	if err != nil {
		return errors.Wrap(err, "failed to load tidyhq organization")
	}

	projects, err := w.projects.GetMany()
	if err != nil {
		return err
	}

	for _, project := range projects {
		if project.FundedAt == 0 || project.ReconciledAt != 0 {
			continue
		}

		summary := summarize(project, invoices)
		if len(summary.paid) == 0 && len(summary.unpaid) == 0 {
			w.logger.Warnw("no invoices found for funded project",
				"project", project.ID, "title", project.Title)
			continue
		}

		settled := summary.settled(project.Total)
		if !settled && !includeUnpaid {
			continue
		}

		if settled {
			_, err := w.projects.Mutate(project.ID, func(p *models.Project) error {
				if p.ReconciledAt == 0 {
					p.ReconciledAt = w.now().Unix()
				}
				return nil
			})
			if err != nil {
				return err
			}

			w.logger.Infow("project reconciled",
				"project", project.ID, "paid_total", summary.paidTotal)
		}

		w.dispatcher.Dispatch([]notifications.Intent{
			w.reconciliationReport(project, summary, settled, includeUnpaid, contactsByID, organization),
		})
	}

	return nil
}

// summarize collects the invoices whose name matches the project and splits
// them by payment state.
func summarize(p *models.Project, invoices []services.Invoice) paymentSummary {
	name := InvoiceName(p)

	var summary paymentSummary
	for _, invoice := range invoices {
		if invoice.Name != name {
			continue
		}

		if invoice.Paid {
			summary.paid = append(summary.paid, invoice)
			summary.paidTotal += int(invoice.Amount)
		} else {
			summary.unpaid = append(summary.unpaid, invoice)
			summary.unpaidTotal += int(invoice.AmountDue)
		}
	}
	return summary
}

func (w *Workflow) reconciliationReport(
	p *models.Project,
	summary paymentSummary,
	settled, includeUnpaid bool,
	contacts map[int]services.Contact,
	organization *services.Organization,
) notifications.Intent {
	text := fmt.Sprintf("Project `%s` has outstanding invoices", p.Title)
	if settled {
		text = fmt.Sprintf("Project `%s` has been fully paid and reconciled", p.Title)
	}

	thread := []string{
		fmt.Sprintf("%d Paid invoices: $%d / $%d", len(summary.paid), summary.paidTotal, p.Total),
		invoiceLines(summary.paid, false, contacts, organization),
	}

	if includeUnpaid && !settled {
		thread = append(thread,
			fmt.Sprintf("%d Unpaid invoices: $%d / $%d", len(summary.unpaid), summary.unpaidTotal, p.Total),
			invoiceLines(summary.unpaid, true, contacts, organization),
		)
	}

	return notifications.Intent{
		Kind:   notifications.KindAdminMessage,
		ChatID: w.app.AdminChannelID,
		Text:   text,
		Thread: thread,
	}
}

func invoiceLines(
	invoices []services.Invoice,
	outstanding bool,
	contacts map[int]services.Contact,
	organization *services.Organization,
) string {
	lines := ""
	for _, invoice := range invoices {
		amount := int(invoice.Amount)
		if outstanding {
			amount = int(invoice.AmountDue)
		}

		name := contacts[invoice.ContactID].DisplayName
		if name == "" {
			name = fmt.Sprintf("contact %d", invoice.ContactID)
		}

		lines += fmt.Sprintf("• [%s](%s) - [$%d](%s)\n",
			name, organization.ContactURL(invoice.ContactID),
			amount, organization.InvoiceURL(invoice.ID))
	}
	return lines
}
