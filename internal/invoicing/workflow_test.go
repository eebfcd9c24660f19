package invoicing

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"community_pledge_system/configs"
	"community_pledge_system/internal/lifecycle"
	"community_pledge_system/internal/notifications"
	mock_notifications "community_pledge_system/internal/notifications/mocks"
	mock_services "community_pledge_system/internal/services/mocks"
	"community_pledge_system/internal/services"
	"community_pledge_system/internal/store"
	"community_pledge_system/internal/store/models"
	"community_pledge_system/internal/store/repositories"
)

const testNow = int64(1700000000)

type workflowFixture struct {
	workflow  *Workflow
	projects  repositories.ProjectRepository
	members   repositories.MemberRepository
	tidyhq    *mock_services.MockTidyHQService
	messenger *mock_notifications.MockMessenger
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	logger := zap.NewNop().Sugar()
	dir := t.TempDir()

	projectStore, err := store.OpenProjectStore(filepath.Join(dir, "projects.json"), true, logger)
	require.NoError(t, err)
	memberStore, err := store.OpenMemberStore(filepath.Join(dir, "members.json"), logger)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	tidyhq := mock_services.NewMockTidyHQService(ctrl)
	messenger := mock_notifications.NewMockMessenger(ctrl)

	projects := repositories.NewProjectRepository(projectStore)
	members := repositories.NewMemberRepository(memberStore)

	workflow := NewWorkflow(
		projects,
		members,
		tidyhq,
		notifications.NewDispatcher(messenger, logger),
		configs.App{AdminChannelID: -42, TaxInfoURL: "https://example.org/tax-deductible"},
		configs.TidyHQ{DGRCategoryID: 77, ProjectCategoryID: 66, TelegramIDFieldID: "fld_tg"},
		logger,
	)
	workflow.now = func() time.Time { return time.Unix(testNow, 0) }

	return &workflowFixture{
		workflow:  workflow,
		projects:  projects,
		members:   members,
		tidyhq:    tidyhq,
		messenger: messenger,
	}
}

func (f *workflowFixture) createFundedProject(t *testing.T, pledges map[string]int) *models.Project {
	t.Helper()

	project := &models.Project{
		ID:          "abc",
		Title:       "Laser cutter",
		Description: "desc",
		Total:       500,
		CreatedBy:   "100",
		CreatedAt:   testNow - 3600,
		Approved:    true,
		ApprovedAt:  testNow - 1800,
		FundedAt:    testNow - 600,
		Pledges:     pledges,
	}
	_, err := f.projects.Create(project)
	require.NoError(t, err)
	return project
}

func (f *workflowFixture) cacheMember(t *testing.T, id, name, handle string, contactID int) {
	t.Helper()
	_, err := f.members.Put(&models.Member{ID: id, DisplayName: name, Handle: handle, ContactID: contactID})
	require.NoError(t, err)
}

var testOrganization = &services.Organization{Name: "Makerspace", DomainPrefix: "makerspace"}

func TestInvoiceName(t *testing.T) {
	p := &models.Project{Title: "Laser cutter"}
	assert.Equal(t, "Project pledge: Laser cutter", InvoiceName(p))

	p.DGR = true
	assert.Equal(t, "Gift/Donation for: Laser cutter", InvoiceName(p))
}

func TestWorkflow_SyncMembersAddsNewContactsOnly(t *testing.T) {
	f := newWorkflowFixture(t)
	f.cacheMember(t, "100", "Alice Example", "alice", 11)

	f.tidyhq.EXPECT().ListContacts().Return([]services.Contact{
		{ID: 1, ContactID: 11, DisplayName: "Alice Renamed", NickName: "alice",
			CustomFields: []services.CustomField{{ID: "fld_tg", Value: "100"}}},
		{ID: 2, ContactID: 22, DisplayName: "Bob Example", NickName: "bob",
			CustomFields: []services.CustomField{{ID: "fld_tg", Value: "200"}}},
		{ID: 3, ContactID: 33, DisplayName: "No Telegram", NickName: "ghost",
			CustomFields: []services.CustomField{{ID: "fld_other", Value: "x"}}},
	}, nil)

	require.NoError(t, f.workflow.SyncMembers())

	// Existing records are never overwritten.
	alice, err := f.members.GetOne("100")
	require.NoError(t, err)
	assert.Equal(t, "Alice Example", alice.DisplayName)

	bob, err := f.members.GetOne("200")
	require.NoError(t, err)
	assert.Equal(t, 22, bob.ContactID)

	_, err = f.members.GetOne("300")
	assert.ErrorIs(t, err, repositories.ErrMemberNotFound)
}

func TestWorkflow_SendInvoicesSuccess(t *testing.T) {
	f := newWorkflowFixture(t)
	f.createFundedProject(t, map[string]int{"200": 200, "100": 300})
	f.cacheMember(t, "100", "Alice Example", "alice", 11)
	f.cacheMember(t, "200", "Bob Example", "bob", 22)

	f.tidyhq.EXPECT().ListContacts().Return(nil, nil)
	f.tidyhq.EXPECT().Organization().Return(testOrganization, nil)

	dueDate := time.Unix(testNow, 0).AddDate(0, 0, 14)
	gomock.InOrder(
		f.tidyhq.EXPECT().CreateInvoice(services.InvoiceRequest{
			Reference:  "Laser cutter",
			Name:       "Project pledge: Laser cutter",
			Amount:     300,
			DueDate:    dueDate,
			CategoryID: 66,
			ContactID:  11,
			Metadata:   "Automatically added via api",
		}).Return(&services.Invoice{ID: "inv-1", Name: "Project pledge: Laser cutter", Amount: 300, ContactID: 11}, nil),
		f.tidyhq.EXPECT().CreateInvoice(services.InvoiceRequest{
			Reference:  "Laser cutter",
			Name:       "Project pledge: Laser cutter",
			Amount:     200,
			DueDate:    dueDate,
			CategoryID: 66,
			ContactID:  22,
			Metadata:   "Automatically added via api",
		}).Return(&services.Invoice{ID: "inv-2", Name: "Project pledge: Laser cutter", Amount: 200, ContactID: 22}, nil),
	)

	f.messenger.EXPECT().SendDirect("100", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_, text string, _ []notifications.Button) error {
			assert.Contains(t, text, "$300")
			assert.Contains(t, text, "https://makerspace.tidyhq.com/public/invoices/inv-1")
			assert.NotContains(t, text, "tax deductible")
			return nil
		})
	f.messenger.EXPECT().SendDirect("200", gomock.Any(), gomock.Nil()).Return(nil)
	f.messenger.EXPECT().SendDirect("100", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_, text string, _ []notifications.Button) error {
			assert.Contains(t, text, "contact the Treasurer")
			return nil
		})
	f.messenger.EXPECT().SendChannel(int64(-42), gomock.Any(), gomock.Nil(), gomock.Nil()).
		DoAndReturn(func(_ int64, text string, _ []string, _ []notifications.Button) error {
			assert.Contains(t, text, "• $300 for @alice - [inv-1](https://makerspace.tidyhq.com/finances/invoices/inv-1)")
			assert.Contains(t, text, "• $200 for @bob - [inv-2](https://makerspace.tidyhq.com/finances/invoices/inv-2)")
			assert.Contains(t, text, "Project goal: $500")
			assert.Contains(t, text, "Total sent: $500")
			assert.Contains(t, text, "have *not* been marked as tax deductible")
			return nil
		})

	outcome, err := f.workflow.SendInvoices("abc")
	require.NoError(t, err)
	assert.Equal(t, "Success: Invoices sent.", outcome)

	project, err := f.projects.GetOne("abc")
	require.NoError(t, err)
	assert.Equal(t, testNow, project.InvoicesSentAt)
}

func TestWorkflow_SendInvoicesDGRUsesGiftCategoryAndDisclosure(t *testing.T) {
	f := newWorkflowFixture(t)
	project := f.createFundedProject(t, map[string]int{"100": 500})
	project.DGR = true
	_, err := f.projects.Update(project)
	require.NoError(t, err)
	f.cacheMember(t, "100", "Alice Example", "alice", 11)

	f.tidyhq.EXPECT().ListContacts().Return(nil, nil)
	f.tidyhq.EXPECT().Organization().Return(testOrganization, nil)
	f.tidyhq.EXPECT().CreateInvoice(gomock.Any()).
		DoAndReturn(func(request services.InvoiceRequest) (*services.Invoice, error) {
			assert.Equal(t, 77, request.CategoryID)
			assert.Equal(t, "Gift/Donation for: Laser cutter", request.Name)
			return &services.Invoice{ID: "inv-1", Amount: 500, ContactID: 11}, nil
		})

	f.messenger.EXPECT().SendDirect("100", gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_, text string, _ []notifications.Button) error {
			assert.Contains(t, text, "[tax deductible](https://example.org/tax-deductible)")
			return nil
		})
	f.messenger.EXPECT().SendDirect("100", gomock.Any(), gomock.Nil()).Return(nil)
	f.messenger.EXPECT().SendChannel(int64(-42), gomock.Any(), gomock.Nil(), gomock.Nil()).
		DoAndReturn(func(_ int64, text string, _ []string, _ []notifications.Button) error {
			assert.Contains(t, text, "have been marked as [tax deductible]")
			return nil
		})

	_, err = f.workflow.SendInvoices("abc")
	require.NoError(t, err)
}

func TestWorkflow_SendInvoicesIdempotent(t *testing.T) {
	f := newWorkflowFixture(t)
	project := f.createFundedProject(t, map[string]int{"100": 500})
	project.InvoicesSentAt = testNow - 86400
	_, err := f.projects.Update(project)
	require.NoError(t, err)
	f.cacheMember(t, "100", "Alice Example", "alice", 11)

	f.tidyhq.EXPECT().ListContacts().Return(nil, nil)
	f.tidyhq.EXPECT().Organization().Return(testOrganization, nil)

	outcome, err := f.workflow.SendInvoices("abc")

	var already *lifecycle.AlreadyProcessedError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, testNow-86400, already.SentAt)
	assert.True(t, strings.HasPrefix(outcome, "Error: Invoices for this project were sent on"))
}

func TestWorkflow_SendInvoicesBlocksOnUnresolvedMember(t *testing.T) {
	f := newWorkflowFixture(t)
	f.createFundedProject(t, map[string]int{"100": 300, "200": 200})
	f.cacheMember(t, "100", "Alice Example", "alice", 11)
	// Member 200 has no cached TidyHQ contact.

	f.tidyhq.EXPECT().ListContacts().Return(nil, nil)
	f.tidyhq.EXPECT().Organization().Return(testOrganization, nil)

	outcome, err := f.workflow.SendInvoices("abc")

	var unresolved *lifecycle.UnresolvedMemberError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "200", unresolved.MemberID)
	assert.Contains(t, outcome, "does not have a Telegram ID associated")

	// All-or-nothing: the project stays unstamped so a later run retries.
	project, err := f.projects.GetOne("abc")
	require.NoError(t, err)
	assert.Zero(t, project.InvoicesSentAt)
}

func TestWorkflow_SendInvoicesCreationFailureLeavesProjectUnstamped(t *testing.T) {
	f := newWorkflowFixture(t)
	f.createFundedProject(t, map[string]int{"100": 500})
	f.cacheMember(t, "100", "Alice Example", "alice", 11)

	f.tidyhq.EXPECT().ListContacts().Return(nil, nil)
	f.tidyhq.EXPECT().Organization().Return(testOrganization, nil)
	f.tidyhq.EXPECT().CreateInvoice(gomock.Any()).Return(nil, assert.AnError)

	outcome, err := f.workflow.SendInvoices("abc")
	require.Error(t, err)
	assert.Contains(t, outcome, "failed to create invoice for Alice Example")

	project, err := f.projects.GetOne("abc")
	require.NoError(t, err)
	assert.Zero(t, project.InvoicesSentAt)
}
