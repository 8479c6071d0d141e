package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stylevault/stylevault/pkg/observability/logger"
)

func TestNewAdapter_Validation(t *testing.T) {
	log := logger.NewNop()

	if _, err := NewAdapter(Config{Database: "stylevault"}, log); err == nil {
		t.Fatal("expected error for missing URL")
	}
	if _, err := NewAdapter(Config{URL: "mongodb://localhost:27017"}, log); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestWithOperationTimeout(t *testing.T) {
	a := &Adapter{timeout: 50 * time.Millisecond}

	ctx, cancel := a.withOperationTimeout(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Fatal("expected deadline to be set")
	}

	parent, parentCancel := context.WithTimeout(context.Background(), time.Hour)
	defer parentCancel()
	ctx2, cancel2 := a.withOperationTimeout(parent)
	defer cancel2()
	deadline, _ := ctx2.Deadline()
	parentDeadline, _ := parent.Deadline()
	if !deadline.Equal(parentDeadline) {
		t.Fatal("existing deadline must be preserved")
	}

	zero := &Adapter{}
	ctx3, cancel3 := zero.withOperationTimeout(context.Background())
	defer cancel3()
	if _, ok := ctx3.Deadline(); ok {
		t.Fatal("zero timeout must not add a deadline")
	}
}

func TestPing_Closed(t *testing.T) {
	a := &Adapter{closed: true}
	if err := a.Ping(context.Background()); err == nil {
		t.Fatal("expected error for closed adapter")
	}
}
