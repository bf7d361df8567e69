package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vuhoang/skillmint/internal/chain"
	"github.com/vuhoang/skillmint/internal/model"
	"github.com/vuhoang/skillmint/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository fakes backing the workflow tests.

type fakeTestRepo struct {
	mu     sync.Mutex
	nextID uint
	tests  map[uint]*model.Test

	registeredWrites int
}

func newFakeTestRepo() *fakeTestRepo {
	return &fakeTestRepo{nextID: 1, tests: make(map[uint]*model.Test)}
}

func (r *fakeTestRepo) Create(test *model.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	test.ID = r.nextID
	r.nextID++
	for i := range test.Questions {
		test.Questions[i].ID = uint(i + 1)
		test.Questions[i].TestID = test.ID
	}
	r.tests[test.ID] = test
	return nil
}

func (r *fakeTestRepo) FindByID(id uint) (*model.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	test, ok := r.tests[id]
	if !ok {
		return &model.Test{}, gorm.ErrRecordNotFound
	}
	copied := *test
	return &copied, nil
}

func (r *fakeTestRepo) FindByIDWithQuestions(id uint) (*model.Test, error) {
	return r.FindByID(id)
}

func (r *fakeTestRepo) FindAllWithQuestionCount() ([]repository.TestWithQuestionCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.TestWithQuestionCount
	for _, t := range r.tests {
		out = append(out, repository.TestWithQuestionCount{Test: *t, QuestionCount: len(t.Questions)})
	}
	return out, nil
}

func (r *fakeTestRepo) SetRegistered(id uint, txHash, metadataCID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	test, ok := r.tests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if test.RegistryTxHash != nil {
		return nil // conditional update, reference already written
	}
	test.RegistryTxHash = &txHash
	test.MetadataCID = &metadataCID
	test.RegisteredAt = &at
	test.RegistrationCount++
	r.registeredWrites++
	return nil
}

func (r *fakeTestRepo) IncrementAttemptCount(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if test, ok := r.tests[id]; ok {
		test.AttemptCount++
	}
	return nil
}

type badgeKey struct {
	testID uint
	owner  string
}

type fakeBadgeRepo struct {
	mu     sync.Mutex
	nextID uint
	badges map[badgeKey]*model.Badge

	createCalls int
	// missNextFind makes the next FindByTestAndOwner miss, so a subsequent
	// insert collides with a row written in between, as a lost race would.
	missNextFind bool
}

func newFakeBadgeRepo() *fakeBadgeRepo {
	return &fakeBadgeRepo{nextID: 1, badges: make(map[badgeKey]*model.Badge)}
}

func (r *fakeBadgeRepo) Create(badge *model.Badge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	key := badgeKey{badge.TestID, badge.OwnerWallet}
	if _, exists := r.badges[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	badge.ID = r.nextID
	badge.CreatedAt = time.Now()
	r.nextID++
	stored := *badge
	r.badges[key] = &stored
	return nil
}

func (r *fakeBadgeRepo) Update(badge *model.Badge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *badge
	r.badges[badgeKey{badge.TestID, badge.OwnerWallet}] = &stored
	return nil
}

func (r *fakeBadgeRepo) FindByTestAndOwner(testID uint, owner string) (*model.Badge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missNextFind {
		r.missNextFind = false
		return &model.Badge{}, gorm.ErrRecordNotFound
	}
	badge, ok := r.badges[badgeKey{testID, owner}]
	if !ok {
		return &model.Badge{}, gorm.ErrRecordNotFound
	}
	copied := *badge
	return &copied, nil
}

func (r *fakeBadgeRepo) FindAllByOwner(owner string) ([]model.Badge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Badge
	for key, badge := range r.badges {
		if key.owner == owner {
			out = append(out, *badge)
		}
	}
	return out, nil
}

func (r *fakeBadgeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.badges)
}

type fakeAttemptRepo struct {
	mu       sync.Mutex
	nextID   uint
	attempts []model.Attempt
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{nextID: 1}
}

func (r *fakeAttemptRepo) Create(attempt *model.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt.ID = r.nextID
	r.nextID++
	r.attempts = append(r.attempts, *attempt)
	return nil
}

func (r *fakeAttemptRepo) FindByID(id uint) (*model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.attempts {
		if r.attempts[i].ID == id {
			copied := r.attempts[i]
			return &copied, nil
		}
	}
	return &model.Attempt{}, gorm.ErrRecordNotFound
}

func (r *fakeAttemptRepo) FindAllByTestAndWallet(testID uint, wallet string) ([]model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Attempt
	for _, a := range r.attempts {
		if a.TestID == testID && a.Wallet == wallet {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttemptRepo) FindAllByWallet(wallet string) ([]model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Attempt
	for _, a := range r.attempts {
		if a.Wallet == wallet {
			out = append(out, a)
		}
	}
	return out, nil
}

// stubLedger is a controllable chain.Client for failure injection.
type stubLedger struct {
	mu            sync.Mutex
	registerCalls int
	mintCalls     int
	registerErr   error
	mintErr       error
	tokenID       string
	txHash        string
}

func newStubLedger() *stubLedger {
	return &stubLedger{tokenID: "token-1", txHash: "0xabc123"}
}

func (s *stubLedger) Simulate(ctx context.Context, op chain.Operation) (*chain.SimulationResult, error) {
	return &chain.SimulationResult{OK: true}, nil
}

func (s *stubLedger) Submit(ctx context.Context, op chain.Operation) (*chain.Receipt, error) {
	return &chain.Receipt{TxHash: s.txHash, Status: chain.StatusPending}, nil
}

func (s *stubLedger) PollUntilFinal(ctx context.Context, txHash string) (*chain.Receipt, error) {
	return &chain.Receipt{Success: true, TxHash: txHash, Status: chain.StatusSuccess}, nil
}

func (s *stubLedger) RegisterTest(ctx context.Context, testID uint, creator, metadataCID string) (*chain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registerCalls++
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &chain.Receipt{Success: true, TxHash: s.txHash, Status: chain.StatusSuccess}, nil
}

func (s *stubLedger) MintBadge(ctx context.Context, receiver, metadataURI string) (*chain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mintCalls++
	if s.mintErr != nil {
		return nil, s.mintErr
	}
	return &chain.Receipt{
		Success: true,
		TxHash:  fmt.Sprintf("%s-%d", s.txHash, s.mintCalls),
		Status:  chain.StatusSuccess,
		TokenID: s.tokenID,
	}, nil
}

func (s *stubLedger) GetTest(ctx context.Context, testID uint) (*chain.DecodedResult, error) {
	return &chain.DecodedResult{OK: true}, nil
}

func (s *stubLedger) ListTests(ctx context.Context) (*chain.DecodedResult, error) {
	return &chain.DecodedResult{OK: true}, nil
}

func (s *stubLedger) GetTokenURI(ctx context.Context, tokenID string) (*chain.DecodedResult, error) {
	return &chain.DecodedResult{OK: true}, nil
}

func (s *stubLedger) Simulated() bool { return false }

// activeTest seeds a test whose window covers now.
func activeTest(repo *fakeTestRepo, passScore float64, questions ...model.Question) *model.Test {
	test := &model.Test{
		Title:         "Intro to Move",
		CreatorWallet: "0xcreator",
		StartTime:     time.Now().Add(-time.Hour),
		EndTime:       time.Now().Add(time.Hour),
		PassScore:     passScore,
		Questions:     questions,
	}
	_ = repo.Create(test)
	return test
}
