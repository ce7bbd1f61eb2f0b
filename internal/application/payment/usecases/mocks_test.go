package usecases

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/application/payment/sessionbuilder"
	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
	"github.com/orris-inc/klarnacheckout/internal/domain/shared/events"
	vo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
	"github.com/orris-inc/klarnacheckout/internal/shared/config"
	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

type mockSessionClient struct {
	mock.Mock
}

func (m *mockSessionClient) CreateSession(ctx context.Context, req *paymentgateway.SessionRequest) (*paymentgateway.RemoteSession, error) {
	args := m.Called(ctx, req)
	if s := args.Get(0); s != nil {
		return s.(*paymentgateway.RemoteSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionClient) UpdateSession(ctx context.Context, sessionID string, req *paymentgateway.SessionRequest) (*paymentgateway.RemoteSession, error) {
	args := m.Called(ctx, sessionID, req)
	if s := args.Get(0); s != nil {
		return s.(*paymentgateway.RemoteSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionClient) FetchSession(ctx context.Context, sessionID string) (*paymentgateway.RemoteSession, error) {
	args := m.Called(ctx, sessionID)
	if s := args.Get(0); s != nil {
		return s.(*paymentgateway.RemoteSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionClient) Acknowledge(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *mockSessionClient) CreateCapture(ctx context.Context, sessionID string, req *paymentgateway.CaptureRequest) (*paymentgateway.Capture, error) {
	args := m.Called(ctx, sessionID, req)
	if c := args.Get(0); c != nil {
		return c.(*paymentgateway.Capture), args.Error(1)
	}
	return nil, args.Error(1)
}

type staticClientProvider struct {
	client paymentgateway.SessionClient
	err    error
}

func (p staticClientProvider) Client() (paymentgateway.SessionClient, error) {
	return p.client, p.err
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(event events.DomainEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *mockEventPublisher) PublishAll(eventList []events.DomainEvent) error {
	args := m.Called(eventList)
	return args.Error(0)
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryPaymentRepo struct {
	mu        sync.Mutex
	payments  map[uint]*payment.Payment
	nextID    uint
	creates   int
	updates   int
	createErr error
	updateErr error
}

func newMemoryPaymentRepo() *memoryPaymentRepo {
	return &memoryPaymentRepo{payments: make(map[uint]*payment.Payment)}
}

func (r *memoryPaymentRepo) Create(_ context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.payments {
		if existing.RemoteID() == p.RemoteID() {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	p.SetID(r.nextID)
	r.payments[p.ID()] = p
	r.creates++
	return nil
}

func (r *memoryPaymentRepo) Update(_ context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.payments[p.ID()] = p
	r.updates++
	return nil
}

func (r *memoryPaymentRepo) GetByID(_ context.Context, id uint) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("payment not found")
	}
	return p, nil
}

func (r *memoryPaymentRepo) GetByRemoteID(_ context.Context, remoteID string) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.RemoteID() == remoteID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memoryPaymentRepo) GetByOrderID(_ context.Context, orderID uint) ([]*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*payment.Payment
	for _, p := range r.payments {
		if p.OrderID() == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryPaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}

type memoryOrderRepo struct {
	orders  map[uint]*order.Order
	updates int
}

func newMemoryOrderRepo(orders ...*order.Order) *memoryOrderRepo {
	r := &memoryOrderRepo{orders: make(map[uint]*order.Order)}
	for _, o := range orders {
		r.orders[o.ID()] = o
	}
	return r
}

func (r *memoryOrderRepo) Create(_ context.Context, o *order.Order) error {
	o.SetID(uint(len(r.orders) + 1))
	r.orders[o.ID()] = o
	return nil
}

func (r *memoryOrderRepo) Update(_ context.Context, o *order.Order) error {
	r.orders[o.ID()] = o
	r.updates++
	return nil
}

func (r *memoryOrderRepo) GetByID(_ context.Context, id uint) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("order not found", fmt.Sprint(id))
	}
	return o, nil
}

type memoryProfileRepo struct {
	profiles map[uint]*order.Profile
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{profiles: make(map[uint]*order.Profile)}
}

func (r *memoryProfileRepo) Save(_ context.Context, p *order.Profile) error {
	if p.ID == 0 {
		p.ID = uint(len(r.profiles) + 1)
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *memoryProfileRepo) GetByID(_ context.Context, id uint) (*order.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("profile not found")
	}
	return p, nil
}

type staticCurrencies map[string]int32

func (s staticCurrencies) FractionDigits(code string) (int32, error) {
	d, ok := s[code]
	if !ok {
		return 0, fmt.Errorf("unknown currency %s", code)
	}
	return d, nil
}

func newTestConverter() *sessionbuilder.MoneyConverter {
	return sessionbuilder.NewMoneyConverter(staticCurrencies{"USD": 2, "SEK": 2, "JPY": 0})
}

func newTestRequestBuilder() *sessionbuilder.RequestBuilder {
	converter := newTestConverter()
	aggregator := sessionbuilder.NewAdjustmentAggregator(sessionbuilder.NewDefaultAdjustmentTransformer(converter))
	cfg := config.KlarnaConfig{
		PurchaseCountry: "US",
		Locale:          "en-us",
		TermsPath:       "/terms",
		MerchantURLs: config.MerchantURLsConfig{
			Checkout:     "/checkout/{order_id}",
			Confirmation: "/api/checkout/orders/{order_id}/confirmation",
			Push:         "/api/checkout/push?klarna_order_id={checkout.order_id}",
		},
	}
	return sessionbuilder.NewRequestBuilder(cfg, "https://shop.example", converter, aggregator, nil)
}

func usd(amount string) vo.Money {
	return vo.MustParseMoney(amount, "USD")
}

func newTestOrder(id uint, total string) *order.Order {
	return order.ReconstructOrder(order.OrderReconstructParams{
		ID:        id,
		StoreName: "Test Store",
		Total:     usd(total),
	})
}

func completeSession(id string, orderAmount int64, orderRef string) *paymentgateway.RemoteSession {
	return &paymentgateway.RemoteSession{
		ID:                 id,
		Status:             paymentgateway.StatusCheckoutComplete,
		PurchaseCurrency:   "USD",
		OrderAmount:        orderAmount,
		MerchantReference2: orderRef,
		HTMLSnippet:        "<div>thanks</div>",
		BillingAddress: paymentgateway.Address{
			"given_name":  "Ada",
			"family_name": "Lovelace",
			"country":     "us",
			"city":        "New York",
			"email":       "ada@example.com",
		},
	}
}
