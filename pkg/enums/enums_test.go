package enums

import "testing"

func TestParseDesignOrigin(t *testing.T) {
	t.Parallel()

	got, err := ParseDesignOrigin("upload")
	if err != nil || got != DesignOriginUpload {
		t.Fatalf("ParseDesignOrigin(upload) = %q, %v", got, err)
	}
	if _, err := ParseDesignOrigin("camera"); err == nil {
		t.Fatal("expected error for unknown origin")
	}
	if !DesignOriginGallery.IsValid() || DesignOrigin("").IsValid() {
		t.Fatal("IsValid mismatch")
	}
}

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	got, err := ParseOrderStatus("pending")
	if err != nil || got != OrderStatusPending {
		t.Fatalf("ParseOrderStatus(pending) = %q, %v", got, err)
	}
	if _, err := ParseOrderStatus("lost"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParseCurrency(t *testing.T) {
	t.Parallel()

	if c, err := ParseCurrency("BRL"); err != nil || c != CurrencyBRL {
		t.Fatalf("ParseCurrency(BRL) = %q, %v", c, err)
	}
	if _, err := ParseCurrency("USD"); err == nil {
		t.Fatal("only the storefront currency is supported")
	}
}
