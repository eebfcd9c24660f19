package notifications

import (
	"encoding/json"
	"fmt"
	"sort"

	"community_pledge_system/internal"
	"community_pledge_system/internal/store/models"
)

// Fanout computes the notifications that follow a state transition. It holds
// no connection state, so every method is a pure function of its inputs.
type Fanout struct {
	adminChatID int64
	taxInfoURL  string
}

func NewFanout(adminChatID int64, taxInfoURL string) *Fanout {
	return &Fanout{
		adminChatID: adminChatID,
		taxInfoURL:  taxInfoURL,
	}
}

func (f *Fanout) admin(text string, thread []string, buttons ...Button) Intent {
	return Intent{
		Kind:    KindAdminMessage,
		ChatID:  f.adminChatID,
		Text:    text,
		Thread:  thread,
		Buttons: buttons,
	}
}

// ProjectCreated announces a new draft to the admin audience with an
// approval call-to-action.
func (f *Fanout) ProjectCreated(p *models.Project) []Intent {
	text := fmt.Sprintf(
		"%q has been created by %s. It will need to be approved before it shows up on the public list of projects or can be marked as DGR eligible.",
		p.Title, internal.Mention(p.CreatedBy),
	)
	return []Intent{f.admin(text, nil, approveButtons(p.ID)...)}
}

// ProjectUpdated notifies the admin audience with the old/new snapshots as
// threaded context, and the creator when somebody else edited their project.
// System-internal updates never reach this fan-out.
func (f *Fanout) ProjectUpdated(old, updated *models.Project, editor string) []Intent {
	intents := []Intent{
		f.admin(
			fmt.Sprintf("%q has been updated by %s.", updated.Title, internal.Mention(editor)),
			[]string{
				fmt.Sprintf("Old:\n```%s```", dump(old)),
				fmt.Sprintf("New:\n```%s```", dump(updated)),
			},
		),
	}

	if updated.CreatedBy != editor {
		intents = append(intents, Intent{
			Kind:     KindDirectMessage,
			MemberID: updated.CreatedBy,
			Text: fmt.Sprintf("A project you created (%s) has been updated by %s.",
				updated.Title, internal.Mention(editor)),
		})
	}

	return intents
}

// PledgeRecorded thanks the donor, surfaces the send-invoices call-to-action
// on the not-funded to funded transition, refreshes every stored promotional
// post, and refreshes the other pledgers' personalized views before the
// acting member's own.
func (f *Fanout) PledgeRecorded(p *models.Project, memberID string, amount int, newlyFunded bool) []Intent {
	intents := []Intent{{
		Kind:     KindDirectMessage,
		MemberID: memberID,
		Text: fmt.Sprintf(
			"We've updated your *total* pledge for %q to $%d. Thank you for your support!\n\nOnce the project is fully funded I'll be in touch to arrange payment.",
			p.Title, amount),
	}}

	if newlyFunded {
		intents = append(intents, f.admin(
			fmt.Sprintf("%q has met its funding goal!", p.Title),
			nil,
			Button{Label: "Send invoices", Action: "send_invoices", Value: p.ID},
		))
	}

	for _, promotion := range p.Promotions {
		intents = append(intents, Intent{
			Kind:      KindRefreshPromotion,
			ChatID:    promotion.ChatID,
			MessageID: promotion.MessageID,
			Project:   p,
		})
	}

	for _, pledger := range sortedPledgers(p) {
		if pledger != memberID {
			intents = append(intents, Intent{Kind: KindRefreshMemberView, MemberID: pledger})
		}
	}
	intents = append(intents, Intent{Kind: KindRefreshMemberView, MemberID: memberID})

	return intents
}

// ApprovalRequested previews the project to the admin audience with the
// approval actions and acknowledges the creator.
func (f *Fanout) ApprovalRequested(p *models.Project, requester string) []Intent {
	text := fmt.Sprintf("%s has requested approval for %q. Please review the project.",
		internal.Mention(requester), p.Title)

	return []Intent{
		f.admin(text, nil, approveButtons(p.ID)...),
		{
			Kind:     KindDirectMessage,
			MemberID: p.CreatedBy,
			Text:     fmt.Sprintf("Your project %q has been submitted for approval.", p.Title),
		},
	}
}

// ProjectApproved notifies the creator with a promote call-to-action and
// records who approved it. When the approval came from a previously posted
// admin request message, that message is edited in place instead of posting
// a new one.
func (f *Fanout) ProjectApproved(p *models.Project, approver string, origin *MessageRef) []Intent {
	creatorText := fmt.Sprintf(
		"Your project %q has been approved! You can now promote it to a channel of your choice.", p.Title)
	auditText := fmt.Sprintf("%q has been approved by %s.", p.Title, internal.Mention(approver))

	if p.DGR {
		creatorText += fmt.Sprintf(
			"\nAdditionally, we have marked this project as qualifying for [tax deductible donations](%s).",
			f.taxInfoURL)
		auditText = fmt.Sprintf("%q has been marked as tax deductible and approved by %s.",
			p.Title, internal.Mention(approver))
	}

	intents := []Intent{{
		Kind:     KindDirectMessage,
		MemberID: p.CreatedBy,
		Text:     creatorText,
		Buttons:  []Button{{Label: "Promote", Action: "promote", Value: p.ID}},
	}}

	if origin != nil {
		intents = append(intents, Intent{
			Kind:      KindEditMessage,
			ChatID:    origin.ChatID,
			MessageID: origin.MessageID,
			Text:      auditText,
		})
	} else {
		intents = append(intents, f.admin(auditText, nil))
	}

	return intents
}

func approveButtons(projectID string) []Button {
	return []Button{
		{Label: "Approve project", Action: "approve", Value: projectID},
		{Label: "Approve + DGR", Action: "approve_as_dgr", Value: projectID},
	}
}

func sortedPledgers(p *models.Project) []string {
	pledgers := make([]string, 0, len(p.Pledges))
	for member := range p.Pledges {
		pledgers = append(pledgers, member)
	}
	sort.Strings(pledgers)
	return pledgers
}

func dump(p *models.Project) string {
	raw, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return err.Error()
	}
	return string(raw)
}
