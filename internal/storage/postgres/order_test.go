package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

var orderRowColumns = []string{
	"id", "order_number", "customer_id", "product_id", "unit_price", "discount", "vat", "gross_total",
	"wallet_amount_applied", "quantity", "paid_total", "status", "payment_method", "payment_reference",
	"estimated_ready_at", "created_at", "updated_at",
}

func orderRow(rows *pgxmockv3.Rows, id int64, number string, status model.OrderStatus, now time.Time) *pgxmockv3.Rows {
	return rows.AddRow(id, number, int64(1), int64(5), decimal.NewFromInt(25), decimal.Zero, decimal.Zero,
		decimal.NewFromInt(50), decimal.NewFromInt(15), 2, decimal.NewFromInt(35), int(status), "CARD", "pi_1",
		now, now, now)
}

func TestOrderRepositoryCreateLine(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := storage.Orders()

	readyAt := time.Now().Add(20 * time.Minute)
	line := model.Order{
		OrderNumber:         "ord-1",
		CustomerID:          1,
		ProductID:           5,
		UnitPrice:           decimal.NewFromInt(25),
		GrossTotal:          decimal.NewFromInt(50),
		WalletAmountApplied: decimal.NewFromInt(15),
		Quantity:            2,
		PaidTotal:           decimal.NewFromInt(35),
		Status:              model.OrderStatusPlaced,
		Payment:             model.Payment{Method: model.PaymentCard, Reference: "pi_1"},
		EstimatedReadyAt:    readyAt,
	}
	args := []any{
		"ord-1", int64(1), int64(5), pgxmockv3.AnyArg(), pgxmockv3.AnyArg(), pgxmockv3.AnyArg(), pgxmockv3.AnyArg(),
		pgxmockv3.AnyArg(), 2, pgxmockv3.AnyArg(), 0, "CARD", "pi_1", readyAt,
	}

	mock.ExpectQuery("INSERT INTO orders").WithArgs(args...).WillReturnRows(pgxmockv3.NewRows([]string{"id"}).AddRow(int64(10)))
	id, err := repo.CreateLine(context.Background(), line)
	if err != nil || id != 10 {
		t.Fatalf("unexpected result: id=%d err=%v", id, err)
	}

	mock.ExpectQuery("INSERT INTO orders").WithArgs(args...).WillReturnError(errors.New("insert"))
	if _, err := repo.CreateLine(context.Background(), line); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryList(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := storage.Orders()

	now := time.Now()

	rows := pgxmockv3.NewRows(orderRowColumns)
	orderRow(rows, 1, "ord-1", model.OrderStatusPlaced, now)
	orderRow(rows, 2, "ord-1", model.OrderStatusPlaced, now)
	mock.ExpectQuery("FROM orders WHERE order_number=").WithArgs("ord-1").WillReturnRows(rows)
	orders, err := repo.ListByNumber(context.Background(), "ord-1")
	if err != nil || len(orders) != 2 {
		t.Fatalf("unexpected result: %v err=%v", orders, err)
	}
	if orders[0].Payment.Method != model.PaymentCard || orders[0].Status != model.OrderStatusPlaced {
		t.Fatalf("unexpected mapping: %+v", orders[0])
	}
	if !orders[0].PaidTotal.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("unexpected paid total %s", orders[0].PaidTotal)
	}

	readyRows := pgxmockv3.NewRows(orderRowColumns)
	orderRow(readyRows, 3, "ord-2", model.OrderStatusReady, now)
	mock.ExpectQuery("FROM orders WHERE customer_id=").WithArgs(int64(1)).WillReturnRows(readyRows)
	orders, err = repo.ListByCustomer(context.Background(), 1)
	if err != nil || len(orders) != 1 || orders[0].Status != model.OrderStatusReady {
		t.Fatalf("unexpected result: %v err=%v", orders, err)
	}

	mock.ExpectQuery("FROM orders WHERE order_number=").WithArgs("err").WillReturnError(errors.New("query"))
	if _, err := repo.ListByNumber(context.Background(), "err"); err == nil {
		t.Fatal("expected error")
	}

	bad := pgxmockv3.NewRows(orderRowColumns).AddRow("bad", "ord-3", int64(1), int64(5), decimal.Zero, decimal.Zero,
		decimal.Zero, decimal.Zero, decimal.Zero, 1, decimal.Zero, 0, "CARD", "", now, now, now)
	mock.ExpectQuery("FROM orders WHERE order_number=").WithArgs("ord-3").WillReturnRows(bad)
	if _, err := repo.ListByNumber(context.Background(), "ord-3"); err == nil {
		t.Fatal("expected scan error")
	}

	mock.ExpectQuery("FROM orders WHERE order_number=").WithArgs("none").WillReturnRows(pgxmockv3.NewRows(orderRowColumns))
	orders, err = repo.ListByNumber(context.Background(), "none")
	if err != nil || len(orders) != 0 {
		t.Fatalf("expected empty result, got %v err=%v", orders, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryListRowsError(t *testing.T) {
	repo := &orderRepository{q: &rowsErrorQuerier{rows: &errorRows{err: errors.New("rows err")}}}

	if _, err := repo.ListByCustomer(context.Background(), 1); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
	if _, err := repo.MarkReadyDue(context.Background(), time.Now(), 1); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestOrderRepositoryMarkReadyDue(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := storage.Orders()

	now := time.Now()
	mock.ExpectQuery("UPDATE orders SET status=").WithArgs(3, now, 5).WillReturnRows(
		pgxmockv3.NewRows([]string{"order_number", "customer_id"}).
			AddRow("ord-1", int64(1)).
			AddRow("ord-1", int64(1)).
			AddRow("ord-2", int64(2)),
	)
	ready, err := repo.MarkReadyDue(context.Background(), now, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ready) != 2 || ready[0].OrderNumber != "ord-1" || ready[1].CustomerID != 2 {
		t.Fatalf("expected deduplicated order numbers, got %+v", ready)
	}

	mock.ExpectQuery("UPDATE orders SET status=").WithArgs(3, now, 5).WillReturnRows(
		pgxmockv3.NewRows([]string{"order_number", "customer_id"}))
	ready, err = repo.MarkReadyDue(context.Background(), now, 5)
	if err != nil || len(ready) != 0 {
		t.Fatalf("expected nothing due, got %v err=%v", ready, err)
	}

	mock.ExpectQuery("UPDATE orders SET status=").WithArgs(3, now, 5).WillReturnError(errors.New("update"))
	if _, err := repo.MarkReadyDue(context.Background(), now, 5); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("UPDATE orders SET status=").WithArgs(3, now, 5).WillReturnRows(
		pgxmockv3.NewRows([]string{"order_number", "customer_id"}).AddRow("ord-1", "bad"))
	if _, err := repo.MarkReadyDue(context.Background(), now, 5); err == nil {
		t.Fatal("expected scan error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
