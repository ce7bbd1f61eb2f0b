package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	vo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
	"github.com/orris-inc/klarnacheckout/internal/shared/biztime"
)

// Data bag keys written by checkout.
const (
	DataKeyRemoteSessionID        = "klarna_order_id"
	DataKeyRemoteSessionCreatedAt = "klarna_session_created_at"
)

// Order is the host order as seen by checkout. Checkout only writes the
// data bag, the email and the billing profile.
type Order struct {
	id             uint
	orderNumber    string
	storeName      string
	email          string
	total          vo.Money
	items          []*Item
	adjustments    []Adjustment
	billingProfile *Profile
	data           map[string]any

	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewOrder(storeName string, total vo.Money, items []*Item, adjustments []Adjustment) (*Order, error) {
	if total.Currency() == "" {
		return nil, fmt.Errorf("order currency is required")
	}
	for _, item := range items {
		if item.Quantity.IsNegative() {
			return nil, fmt.Errorf("item %q has negative quantity", item.Label)
		}
	}

	now := biztime.NowUTC()
	return &Order{
		storeName:   storeName,
		total:       total,
		items:       items,
		adjustments: adjustments,
		data:        make(map[string]any),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func (o *Order) ID() uint {
	return o.id
}

// IDString is the order id as round-tripped through merchant_reference2.
func (o *Order) IDString() string {
	return strconv.FormatUint(uint64(o.id), 10)
}

func (o *Order) OrderNumber() string {
	return o.orderNumber
}

func (o *Order) SetOrderNumber(number string) {
	o.orderNumber = number
	o.touch()
}

func (o *Order) StoreName() string {
	return o.storeName
}

func (o *Order) Email() string {
	return o.email
}

func (o *Order) SetEmail(email string) {
	o.email = strings.TrimSpace(email)
	o.touch()
}

func (o *Order) Total() vo.Money {
	return o.total
}

func (o *Order) Currency() string {
	return o.total.Currency()
}

func (o *Order) Items() []*Item {
	return o.items
}

// Adjustments returns order level adjustments only.
func (o *Order) Adjustments() []Adjustment {
	return o.adjustments
}

// CollectAdjustments returns item adjustments followed by order adjustments.
func (o *Order) CollectAdjustments() []Adjustment {
	var all []Adjustment
	for _, item := range o.items {
		all = append(all, item.Adjustments...)
	}
	return append(all, o.adjustments...)
}

func (o *Order) BillingProfile() *Profile {
	return o.billingProfile
}

func (o *Order) SetBillingProfile(profile *Profile) {
	o.billingProfile = profile
	o.touch()
}

func (o *Order) Data() map[string]any {
	return o.data
}

// GetData returns the string stored under key, if any.
func (o *Order) GetData(key string) (string, bool) {
	v, ok := o.data[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func (o *Order) SetData(key string, value any) {
	if o.data == nil {
		o.data = make(map[string]any)
	}
	o.data[key] = value
	o.touch()
}

// RemoteSessionID returns the provider session id stored on the order.
func (o *Order) RemoteSessionID() (string, bool) {
	return o.GetData(DataKeyRemoteSessionID)
}

// SetRemoteSessionID stores a newly created provider session id together
// with its creation time.
func (o *Order) SetRemoteSessionID(sessionID string) {
	o.SetData(DataKeyRemoteSessionID, sessionID)
	o.SetData(DataKeyRemoteSessionCreatedAt, biztime.FormatMetadataTime(biztime.NowUTC()))
}

// RemoteSessionCreatedAt reports when the stored provider session was created.
func (o *Order) RemoteSessionCreatedAt() (time.Time, bool) {
	raw, ok := o.GetData(DataKeyRemoteSessionCreatedAt)
	if !ok {
		return time.Time{}, false
	}
	t, err := biztime.ParseMetadataTime(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (o *Order) Version() int {
	return o.version
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// SetID sets the order ID after persistence (used by repository after Create)
func (o *Order) SetID(id uint) {
	o.id = id
}

// IncrementVersion is called by the repository after a successful update.
func (o *Order) IncrementVersion() {
	o.version++
}

func (o *Order) touch() {
	o.updatedAt = biztime.NowUTC()
}

// OrderReconstructParams carries persisted state into ReconstructOrder.
type OrderReconstructParams struct {
	ID             uint
	OrderNumber    string
	StoreName      string
	Email          string
	Total          vo.Money
	Items          []*Item
	Adjustments    []Adjustment
	BillingProfile *Profile
	Data           map[string]any
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func ReconstructOrder(p OrderReconstructParams) *Order {
	data := p.Data
	if data == nil {
		data = make(map[string]any)
	}
	return &Order{
		id:             p.ID,
		orderNumber:    p.OrderNumber,
		storeName:      p.StoreName,
		email:          p.Email,
		total:          p.Total,
		items:          p.Items,
		adjustments:    p.Adjustments,
		billingProfile: p.BillingProfile,
		data:           data,
		version:        p.Version,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}
}
