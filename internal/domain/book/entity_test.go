package book

import (
	"errors"
	"testing"
)

func newTestBook(quantity int) *Book {
	return NewBook("9787111558422", "Go语言程序设计", "Donovan", "机械工业出版社", 2017, "programming", 7900, quantity, "")
}

func TestHasStock(t *testing.T) {
	b := newTestBook(5)

	if !b.HasStock(5) {
		t.Error("库存5应满足需求5")
	}
	if b.HasStock(6) {
		t.Error("库存5不应满足需求6")
	}
}

func TestIsAvailable(t *testing.T) {
	if !newTestBook(1).IsAvailable() {
		t.Error("库存1应为有货")
	}
	if newTestBook(0).IsAvailable() {
		t.Error("库存0应为无货")
	}
}

func TestReduceQuantity(t *testing.T) {
	b := newTestBook(10)

	if err := b.ReduceQuantity(3); err != nil {
		t.Fatalf("扣减库存失败: %v", err)
	}
	if b.Quantity != 7 {
		t.Errorf("扣减后库存应为7, 实际%d", b.Quantity)
	}
}

func TestReduceQuantity_Insufficient(t *testing.T) {
	b := newTestBook(2)

	err := b.ReduceQuantity(3)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("库存不足应返回ErrInsufficientStock, 实际%v", err)
	}
	// 失败时库存不变
	if b.Quantity != 2 {
		t.Errorf("扣减失败后库存不应变化, 实际%d", b.Quantity)
	}
}

func TestReduceQuantity_InvalidAmount(t *testing.T) {
	b := newTestBook(10)
	for _, amount := range []int{0, -1} {
		if err := b.ReduceQuantity(amount); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("扣减量%d应被拒绝, 实际%v", amount, err)
		}
	}
}

func TestAddQuantity(t *testing.T) {
	b := newTestBook(3)

	if err := b.AddQuantity(2); err != nil {
		t.Fatalf("回补库存失败: %v", err)
	}
	if b.Quantity != 5 {
		t.Errorf("回补后库存应为5, 实际%d", b.Quantity)
	}

	if err := b.AddQuantity(-1); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("负增量应被拒绝, 实际%v", err)
	}
}

func TestSetQuantity(t *testing.T) {
	b := newTestBook(10)

	if err := b.SetQuantity(0); err != nil {
		t.Fatalf("设置库存失败: %v", err)
	}
	if b.Quantity != 0 || b.IsAvailable() {
		t.Error("库存设为0后应为无货")
	}

	if err := b.SetQuantity(-3); !errors.Is(err, ErrInvalidStock) {
		t.Errorf("负库存应被拒绝, 实际%v", err)
	}
}

func TestUpdatePrice(t *testing.T) {
	b := newTestBook(10)

	if err := b.UpdatePrice(8900); err != nil {
		t.Fatalf("改价失败: %v", err)
	}
	if b.Price != 8900 {
		t.Errorf("价格应为8900, 实际%d", b.Price)
	}

	if err := b.UpdatePrice(-1); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("负价格应被拒绝, 实际%v", err)
	}
}

func TestUpdateInfo_PartialUpdate(t *testing.T) {
	b := newTestBook(10)

	// 空字符串/0年份表示不修改
	b.UpdateInfo("新书名", "", "", "", "", 0)

	if b.Title != "新书名" {
		t.Errorf("书名应被更新, 实际%q", b.Title)
	}
	if b.Author != "Donovan" || b.PublicationYear != 2017 {
		t.Error("未指定的字段不应变化")
	}
}
