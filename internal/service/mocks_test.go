package service

import (
	"context"
	"sync"

	"shopease-backend/internal/client"
	"shopease-backend/internal/model"
	"shopease-backend/internal/repository"

	"github.com/stripe/stripe-go/v80"
	"gorm.io/gorm"
)

// ---- cart repository ----

type mockCartRepo struct {
	mu    sync.Mutex
	carts map[string]*model.Cart
	err   error
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]*model.Cart)}
}

func (m *mockCartRepo) Get(_ context.Context, sessionID string) (*model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	cart, ok := m.carts[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *cart
	copied.Lines = append([]model.CartLine(nil), cart.Lines...)
	return &copied, nil
}

func (m *mockCartRepo) Save(_ context.Context, cart *model.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	copied := *cart
	copied.Lines = append([]model.CartLine(nil), cart.Lines...)
	m.carts[cart.SessionID] = &copied
	return nil
}

func (m *mockCartRepo) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

// ---- product repository ----

type mockProductRepo struct {
	products map[string]*model.Product
}

func newMockProductRepo(products ...*model.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[string]*model.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) Seed(context.Context) error { return nil }

func (m *mockProductRepo) FindByID(_ context.Context, productID string) (*model.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockProductRepo) List(context.Context) ([]*model.Product, error) {
	out := make([]*model.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

// ---- order repository ----

type mockOrderRepo struct {
	mu         sync.Mutex
	bySession  map[string]*model.Order
	nextID     uint
	createErr  error
	forceRaces bool // make the pre-insert lookup miss, as if another replica won the race
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{bySession: make(map[string]*model.Order), nextID: 1}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.bySession[order.SessionID]; exists {
		return repository.ErrDuplicateOrder
	}
	order.ID = m.nextID
	m.nextID++
	m.bySession[order.SessionID] = order
	return nil
}

func (m *mockOrderRepo) FindBySessionID(_ context.Context, sessionID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forceRaces {
		return nil, gorm.ErrRecordNotFound
	}
	order, ok := m.bySession[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uint) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, order := range m.bySession {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) List(context.Context) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Order, 0, len(m.bySession))
	for _, order := range m.bySession {
		out = append(out, order)
	}
	return out, nil
}

func (m *mockOrderRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bySession)
}

// ---- webhook event repository ----

type mockWebhookEventRepo struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMockWebhookEventRepo() *mockWebhookEventRepo {
	return &mockWebhookEventRepo{seen: make(map[string]bool)}
}

func (m *mockWebhookEventRepo) Exists(_ context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[eventID], nil
}

func (m *mockWebhookEventRepo) MarkProcessed(_ context.Context, eventID, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[eventID] = true
	return nil
}

// ---- payment gateway ----

type mockGateway struct {
	createResp *client.CreateSessionResponse
	createErr  error
	lastParams *client.CreateSessionParams

	event    stripe.Event
	parseErr error
}

func (m *mockGateway) CreateCheckoutSession(_ context.Context, params *client.CreateSessionParams) (*client.CreateSessionResponse, error) {
	m.lastParams = params
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.createResp, nil
}

func (m *mockGateway) ParseEvent([]byte, string) (stripe.Event, error) {
	if m.parseErr != nil {
		return stripe.Event{}, m.parseErr
	}
	return m.event, nil
}

// ---- rates ----

type mockRates struct {
	rate float64
}

func (m *mockRates) Rate(context.Context, string) float64 {
	return m.rate
}

// ---- student repository ----

type mockStudentRepo struct {
	mu      sync.Mutex
	byEmail map[string]*model.Student
	nextID  uint
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{byEmail: make(map[string]*model.Student), nextID: 1}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[student.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	student.ID = m.nextID
	m.nextID++
	m.byEmail[student.Email] = student
	return nil
}

func (m *mockStudentRepo) FindByEmail(_ context.Context, email string) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	student, ok := m.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *mockStudentRepo) ReplaceCourses(_ context.Context, studentID uint, courses []model.StudentCourse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, student := range m.byEmail {
		if student.ID == studentID {
			student.Courses = courses
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
