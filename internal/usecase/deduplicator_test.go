package usecase

import (
	"testing"

	"github.com/giftgenie/backend/internal/domain"
)

func TestProductSignature(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		title := "<b>휘슬러</b> 프리미엄 냄비 세트 블랙 3종"
		first := ProductSignature(title, "휘슬러")
		second := ProductSignature(title, "휘슬러")
		if first != second {
			t.Errorf("signatures differ: %q vs %q", first, second)
		}
	})

	t.Run("ignores color quantity and brand tokens", func(t *testing.T) {
		a := ProductSignature("<b>휘슬러</b> 프리미엄 냄비 세트 블랙 3종", "휘슬러")
		b := ProductSignature("휘슬러 프리미엄 냄비 세트 화이트 3종 [무료배송]", "휘슬러")
		if a != b {
			t.Errorf("expected equal signatures, got %q and %q", a, b)
		}
		if a != "휘슬러|냄비 세트 프리미엄" {
			t.Errorf("signature = %q, want %q", a, "휘슬러|냄비 세트 프리미엄")
		}
	})

	t.Run("token order does not matter", func(t *testing.T) {
		a := ProductSignature("세라믹 머그컵 350ml", "")
		b := ProductSignature("머그컵 세라믹 500ml", "")
		if a != b {
			t.Errorf("expected equal signatures, got %q and %q", a, b)
		}
	})

	t.Run("different items differ", func(t *testing.T) {
		a := ProductSignature("세라믹 머그컵", "코렐")
		b := ProductSignature("스테인리스 텀블러", "코렐")
		if a == b {
			t.Errorf("expected different signatures, both %q", a)
		}
	})

	t.Run("keeps at most five tokens", func(t *testing.T) {
		sig := ProductSignature("하나 둘 셋 넷 다섯 여섯 일곱", "")
		if sig != "넷 다섯 둘 셋 하나" {
			t.Errorf("signature = %q", sig)
		}
	})
}

func TestDeduplicator_Filter(t *testing.T) {
	t.Run("two distinct plus one duplicate signature yields two", func(t *testing.T) {
		products := []domain.CatalogProduct{
			catalogProduct("1", "휘슬러 프리미엄 냄비 세트 블랙", "휘슬러", 89000),
			catalogProduct("2", "르크루제 무쇠 주물냄비 20cm", "르크루제", 129000),
			catalogProduct("3", "휘슬러 프리미엄 냄비 세트 화이트", "휘슬러", 92000),
		}

		kept := NewDeduplicator(3).Filter(products)
		if len(kept) != 2 {
			t.Fatalf("kept %d products, want 2", len(kept))
		}
		if kept[0].ID != "1" || kept[1].ID != "2" {
			t.Errorf("kept ids %s,%s, want 1,2", kept[0].ID, kept[1].ID)
		}
		if kept[0].Signature == "" {
			t.Error("signature was not filled in")
		}
	})

	t.Run("drops repeated external id", func(t *testing.T) {
		products := []domain.CatalogProduct{
			catalogProduct("42", "세라믹 머그컵", "코렐", 30000),
			catalogProduct("42", "스테인리스 텀블러", "스탠리", 40000),
		}
		if kept := NewDeduplicator(3).Filter(products); len(kept) != 1 {
			t.Errorf("kept %d products, want 1", len(kept))
		}
	})

	t.Run("falls back to link when id is missing", func(t *testing.T) {
		a := catalogProduct("", "세라믹 머그컵", "코렐", 30000)
		b := catalogProduct("", "스테인리스 텀블러", "스탠리", 40000)
		b.Link = a.Link
		if kept := NewDeduplicator(3).Filter([]domain.CatalogProduct{a, b}); len(kept) != 1 {
			t.Errorf("kept %d products, want 1", len(kept))
		}
	})

	t.Run("caps items per brand and leaf category", func(t *testing.T) {
		var products []domain.CatalogProduct
		for i, edition := range []string{"알파", "베타", "감마", "델타"} {
			p := catalogProduct(string(rune('a'+i)), "Acme 머그컵 "+edition, "Acme", 30000)
			products = append(products, p)
		}
		other := catalogProduct("z", "Zen 머그컵 오메가", "Zen", 30000)
		products = append(products, other)

		kept := NewDeduplicator(3).Filter(products)
		if len(kept) != 4 {
			t.Fatalf("kept %d products, want 4", len(kept))
		}
		if kept[3].ID != "z" {
			t.Errorf("last kept id = %s, want z", kept[3].ID)
		}
	})

	t.Run("same brand in another leaf category is a separate group", func(t *testing.T) {
		var products []domain.CatalogProduct
		for i, edition := range []string{"알파", "베타", "감마", "델타"} {
			p := catalogProduct(string(rune('a'+i)), "Acme 머그컵 "+edition, "Acme", 30000)
			if i == 3 {
				p.Categories = []string{"생활/건강", "문구"}
			}
			products = append(products, p)
		}
		if kept := NewDeduplicator(3).Filter(products); len(kept) != 4 {
			t.Errorf("kept %d products, want 4", len(kept))
		}
	})
}

func TestDeduplicator_Accept(t *testing.T) {
	d := NewDeduplicator(0)
	p := catalogProduct("1", "세라믹 머그컵", "코렐", 30000)

	ok, reason := d.Accept(&p)
	if !ok || reason != "" {
		t.Fatalf("first Accept() = %v, %q", ok, reason)
	}

	dup := catalogProduct("2", "세라믹 머그컵", "코렐", 31000)
	ok, reason = d.Accept(&dup)
	if ok || reason != rejectDuplicate {
		t.Errorf("second Accept() = %v, %q, want false, %q", ok, reason, rejectDuplicate)
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}
