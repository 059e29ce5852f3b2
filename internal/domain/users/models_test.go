package users

import (
	"errors"
	"testing"

	"github.com/preston-bernstein/prediction-service/internal/domain/money"
)

func TestDebitSubtractsAndAppends(t *testing.T) {
	u := User{ID: "user1", Balance: money.New(100)}
	p := NewPrediction("p1", "g1", "LAL", money.New(30))

	got, err := u.Debit(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Balance.Equal(money.New(70)) {
		t.Fatalf("expected balance 70, got %s", got.Balance)
	}
	if len(got.Predictions) != 1 || got.Predictions[0].Result != ResultPending {
		t.Fatalf("expected one pending prediction, got %+v", got.Predictions)
	}
	if len(u.Predictions) != 0 || !u.Balance.Equal(money.New(100)) {
		t.Fatal("expected receiver to be unchanged")
	}
}

func TestDebitRejectsOverdraw(t *testing.T) {
	u := User{ID: "user1", Balance: money.New(50)}
	got, err := u.Debit(NewPrediction("p1", "g1", "LAL", money.New(75)))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if !got.Balance.Equal(money.New(50)) || len(got.Predictions) != 0 {
		t.Fatalf("expected unchanged user, got %+v", got)
	}
}

func TestDebitAllowsExactBalance(t *testing.T) {
	u := User{ID: "user1", Balance: money.New(50)}
	got, err := u.Debit(NewPrediction("p1", "g1", "LAL", money.New(50)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", got.Balance)
	}
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	u := User{Predictions: []Prediction{{ID: "p1"}}}
	c := u.Clone()
	c.Predictions[0].ID = "changed"
	if u.Predictions[0].ID != "p1" {
		t.Fatal("expected clone to be independent")
	}
}

func TestPredictionForReturnsLatest(t *testing.T) {
	u := User{Predictions: []Prediction{
		{ID: "p1", GameID: "g1"},
		{ID: "p2", GameID: "g2"},
		{ID: "p3", GameID: "g1"},
	}}
	p, ok := u.PredictionFor("g1")
	if !ok || p.ID != "p3" {
		t.Fatalf("expected p3, got %+v %v", p, ok)
	}
	if _, ok := u.PredictionFor("missing"); ok {
		t.Fatal("expected no prediction")
	}
}
