package invoicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"community_pledge_system/internal/notifications"
	"community_pledge_system/internal/services"
	"community_pledge_system/internal/store/models"
)

func (f *workflowFixture) expectReconcileListings(invoices []services.Invoice, contacts []services.Contact) {
	f.tidyhq.EXPECT().ListInvoices().Return(invoices, nil)
	f.tidyhq.EXPECT().ListContacts().Return(contacts, nil)
	f.tidyhq.EXPECT().Organization().Return(testOrganization, nil)
}

func TestWorkflow_ReconcileStampsSettledProject(t *testing.T) {
	f := newWorkflowFixture(t)
	f.createFundedProject(t, map[string]int{"100": 300, "200": 200})

	f.expectReconcileListings([]services.Invoice{
		{ID: "inv-1", Name: "Project pledge: Laser cutter", Amount: 300, Paid: true, ContactID: 11},
		{ID: "inv-2", Name: "Project pledge: Laser cutter", Amount: 200, Paid: true, ContactID: 22},
		{ID: "inv-9", Name: "Project pledge: Something else", Amount: 999, Paid: true, ContactID: 33},
	}, []services.Contact{
		{ID: 11, ContactID: 1100, DisplayName: "Alice Example"},
		{ID: 22, ContactID: 2200, DisplayName: "Bob Example"},
	})

	f.messenger.EXPECT().SendChannel(int64(-42), gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ int64, text string, thread []string, _ []notifications.Button) error {
			assert.Equal(t, "Project `Laser cutter` has been fully paid and reconciled", text)
			require.Len(t, thread, 2)
			assert.Equal(t, "2 Paid invoices: $500 / $500", thread[0])
			assert.Contains(t, thread[1], "[Alice Example](https://makerspace.tidyhq.com/contacts/11)")
			assert.Contains(t, thread[1], "[$300](https://makerspace.tidyhq.com/finances/invoices/inv-1)")
			return nil
		})

	require.NoError(t, f.workflow.Reconcile(false))

	project, err := f.projects.GetOne("abc")
	require.NoError(t, err)
	assert.Equal(t, testNow, project.ReconciledAt)
}

func TestWorkflow_ReconcileSkipsOutstandingWithoutFlag(t *testing.T) {
	f := newWorkflowFixture(t)
	f.createFundedProject(t, map[string]int{"100": 300, "200": 200})

	f.expectReconcileListings([]services.Invoice{
		{ID: "inv-1", Name: "Project pledge: Laser cutter", Amount: 300, Paid: true, ContactID: 11},
		{ID: "inv-2", Name: "Project pledge: Laser cutter", AmountDue: 200, ContactID: 22},
	}, nil)

	require.NoError(t, f.workflow.Reconcile(false))

	project, err := f.projects.GetOne("abc")
	require.NoError(t, err)
	assert.Zero(t, project.ReconciledAt)
}

func TestWorkflow_ReconcileReportsOutstandingWithFlag(t *testing.T) {
	f := newWorkflowFixture(t)
	f.createFundedProject(t, map[string]int{"100": 300, "200": 200})

	f.expectReconcileListings([]services.Invoice{
		{ID: "inv-1", Name: "Project pledge: Laser cutter", Amount: 300, Paid: true, ContactID: 11},
		{ID: "inv-2", Name: "Project pledge: Laser cutter", AmountDue: 200, ContactID: 22},
	}, []services.Contact{
		{ID: 22, ContactID: 2200, DisplayName: "Bob Example"},
	})

	f.messenger.EXPECT().SendChannel(int64(-42), gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ int64, text string, thread []string, _ []notifications.Button) error {
			assert.Equal(t, "Project `Laser cutter` has outstanding invoices", text)
			require.Len(t, thread, 4)
			assert.Equal(t, "1 Paid invoices: $300 / $500", thread[0])
			assert.Equal(t, "1 Unpaid invoices: $200 / $500", thread[2])
			assert.Contains(t, thread[3], "[Bob Example](https://makerspace.tidyhq.com/contacts/22)")
			assert.Contains(t, thread[3], "[$200](https://makerspace.tidyhq.com/finances/invoices/inv-2)")
			return nil
		})

	require.NoError(t, f.workflow.Reconcile(true))

	project, err := f.projects.GetOne("abc")
	require.NoError(t, err)
	assert.Zero(t, project.ReconciledAt)
}

func TestWorkflow_ReconcileWarnsWhenNoInvoicesMatch(t *testing.T) {
	f := newWorkflowFixture(t)
	f.createFundedProject(t, map[string]int{"100": 500})

	f.expectReconcileListings(nil, nil)

	require.NoError(t, f.workflow.Reconcile(true))

	project, err := f.projects.GetOne("abc")
	require.NoError(t, err)
	assert.Zero(t, project.ReconciledAt)
}

func TestWorkflow_ReconcileIgnoresUnfundedAndReconciledProjects(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.projects.Create(&models.Project{
		ID: "draft", Title: "Draft", Total: 100, CreatedBy: "100", CreatedAt: testNow,
	})
	require.NoError(t, err)
	_, err = f.projects.Create(&models.Project{
		ID: "done", Title: "Done", Total: 100, CreatedBy: "100", CreatedAt: testNow,
		FundedAt: testNow, ReconciledAt: testNow,
	})
	require.NoError(t, err)

	f.expectReconcileListings([]services.Invoice{
		{ID: "inv-1", Name: "Project pledge: Done", Amount: 100, Paid: true, ContactID: 11},
	}, nil)

	require.NoError(t, f.workflow.Reconcile(true))
}

func TestSummarize_MatchesByInvoiceName(t *testing.T) {
	p := &models.Project{Title: "Laser cutter", Total: 500}

	summary := summarize(p, []services.Invoice{
		{ID: "inv-1", Name: "Project pledge: Laser cutter", Amount: 300, Paid: true},
		{ID: "inv-2", Name: "Project pledge: Laser cutter", AmountDue: 150},
		{ID: "inv-3", Name: "Gift/Donation for: Laser cutter", Amount: 50, Paid: true},
	})

	assert.Len(t, summary.paid, 1)
	assert.Equal(t, 300, summary.paidTotal)
	assert.Len(t, summary.unpaid, 1)
	assert.Equal(t, 150, summary.unpaidTotal)
	assert.False(t, summary.settled(p.Total))
	assert.True(t, summary.settled(300))
}
