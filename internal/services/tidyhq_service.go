package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const (
	organizationCacheKey = "organization"
	contactsCacheKey     = "contacts"
)

type Invoice struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	AmountDue float64 `json:"amount_due"`
	Paid      bool    `json:"paid"`
	ContactID int     `json:"contact_id"`
}

type CustomField struct {
	ID    string      `json:"id"`
	Value interface{} `json:"value"`
}

// StringValue returns the field value when it is a plain string, empty
// otherwise. TidyHQ custom fields are loosely typed.
func (f CustomField) StringValue() string {
	value, _ := f.Value.(string)
	return value
}

type Contact struct {
	ID           int           `json:"id"`
	ContactID    int           `json:"contact_id"`
	DisplayName  string        `json:"display_name"`
	NickName     string        `json:"nick_name"`
	CustomFields []CustomField `json:"custom_fields"`
}

type Organization struct {
	Name         string `json:"name"`
	DomainPrefix string `json:"domain_prefix"`
}

// InvoiceURL builds the finance-side link for an invoice.
func (o Organization) InvoiceURL(invoiceID string) string {
	return fmt.Sprintf("https://%s.tidyhq.com/finances/invoices/%s", o.DomainPrefix, invoiceID)
}

// PublicInvoiceURL builds the payment link shown to donors.
func (o Organization) PublicInvoiceURL(invoiceID string) string {
	return fmt.Sprintf("https://%s.tidyhq.com/public/invoices/%s", o.DomainPrefix, invoiceID)
}

// ContactURL builds the CRM link for a contact.
func (o Organization) ContactURL(contactID int) string {
	return fmt.Sprintf("https://%s.tidyhq.com/contacts/%d", o.DomainPrefix, contactID)
}

type InvoiceRequest struct {
	Reference  string
	Name       string
	Amount     int
	DueDate    time.Time
	CategoryID int
	ContactID  int
	Metadata   string
}

type service struct {
	client  *http.Client
	baseURL string
	token   string
	cache   *gocache.Cache
}

type TidyHQService interface {
	CreateInvoice(request InvoiceRequest) (*Invoice, error)
	ListInvoices() ([]Invoice, error)
	ListContacts() ([]Contact, error)
	Organization() (*Organization, error)
}

func NewTidyHQService(baseURL, token string) TidyHQService {
	return &service{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		token:   token,
		cache:   gocache.New(time.Hour, 10*time.Minute),
	}
}

func (s *service) CreateInvoice(request InvoiceRequest) (*Invoice, error) {
	params := url.Values{}
	params.Set("reference", request.Reference)
	params.Set("name", request.Name)
	params.Set("amount", strconv.Itoa(request.Amount))
	params.Set("included_tax_total", strconv.Itoa(request.Amount))
	params.Set("pre_tax_amount", strconv.Itoa(request.Amount))
	params.Set("due_date", request.DueDate.Format("2006-01-02"))
	params.Set("category_id", strconv.Itoa(request.CategoryID))
	params.Set("contact_id", strconv.Itoa(request.ContactID))
	params.Set("metadata", request.Metadata)

	invoice := new(Invoice)
	if err := s.do(http.MethodPost, "invoices", params, invoice); err != nil {
		return nil, err
	}

	return invoice, nil
}

func (s *service) ListInvoices() ([]Invoice, error) {
	var invoices []Invoice
	if err := s.do(http.MethodGet, "invoices", nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (s *service) ListContacts() ([]Contact, error) {
	if cached, ok := s.cache.Get(contactsCacheKey); ok {
		return cached.([]Contact), nil
	}

	var contacts []Contact
	if err := s.do(http.MethodGet, "contacts", nil, &contacts); err != nil {
		return nil, err
	}

	s.cache.Set(contactsCacheKey, contacts, gocache.DefaultExpiration)
	return contacts, nil
}

// Organization is not expected to change while a process runs, so the
// response is cached until it expires.
func (s *service) Organization() (*Organization, error) {
	if cached, ok := s.cache.Get(organizationCacheKey); ok {
		return cached.(*Organization), nil
	}

	organization := new(Organization)
	if err := s.do(http.MethodGet, "organization", nil, organization); err != nil {
		return nil, err
	}

	s.cache.Set(organizationCacheKey, organization, gocache.NoExpiration)
	return organization, nil
}

func (s *service) do(method, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", s.token)

	request, err := http.NewRequest(method, fmt.Sprintf("%s/%s?%s", s.baseURL, path, params.Encode()), nil)
	if err != nil {
		return errors.Wrapf(err, "failed to build %s request", path)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return errors.Wrapf(err, "tidyhq %s request failed", path)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return errors.Wrapf(err, "failed to read tidyhq %s response", path)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("tidyhq %s returned %d: %s", path, response.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "failed to decode tidyhq %s response", path)
	}
	return nil
}
