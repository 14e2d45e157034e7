package notify

import (
	"testing"
	"time"

	"vencehoje/internal/core"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 10, hour, minute, 0, 0, time.UTC)
}

func overdueBill(name string, due string) core.Bill {
	return core.Bill{
		Name:               name,
		Amount:             core.Money{Cents: 10000},
		DueDate:            due,
		CategoryID:         1,
		ProfileID:          1,
		Unit:               core.Month,
		Interval:           1,
		CurrentInstallment: 1,
	}
}

func TestEvaluate_CurfewGate(t *testing.T) {
	bills := []core.Bill{overdueBill("Rent", "07/05/2024")}

	tests := []struct {
		name  string
		now   time.Time
		level Insistence
	}{
		{"before target", at(7, 30), Critical},
		{"late evening", at(22, 0), Critical},
		{"near midnight", at(23, 45), High},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.now, 8, 0, tt.level, bills, nil)
			if d.Notify {
				t.Error("curfew must suppress notifications regardless of insistence")
			}
			if d.NextCheck != 4*time.Hour {
				t.Errorf("sleeping interval = %v, want 4h", d.NextCheck)
			}
		})
	}
}

func TestEvaluate_NoEligibleBills(t *testing.T) {
	bills := []core.Bill{
		{Name: "paid", DueDate: "01/05/2024", IsPaid: true},
		{Name: "autodebit", DueDate: "01/05/2024", IsAutomatic: true},
		{Name: "future", DueDate: "20/05/2024"},
		{Name: "broken date", DueDate: "???"},
	}

	d := Evaluate(at(8, 10), 8, 0, Critical, bills, nil)
	if d.Notify {
		t.Error("no eligible bill, nothing must fire")
	}
	if d.NextCheck != 4*time.Hour {
		t.Errorf("empty run sleeps 4h, got %v", d.NextCheck)
	}
}

func TestEvaluate_StandardWindow(t *testing.T) {
	bills := []core.Bill{overdueBill("Rent", "07/05/2024")}

	tests := []struct {
		name       string
		now        time.Time
		wantNotify bool
	}{
		{"ten past target fires", at(8, 10), true},
		{"forty past target fires", at(8, 40), true},
		{"past the window is silent", at(9, 30), false},
		{"afternoon is silent", at(15, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.now, 8, 0, Standard, bills, nil)
			if d.Notify != tt.wantNotify {
				t.Errorf("Notify = %v, want %v", d.Notify, tt.wantNotify)
			}
			if d.NextCheck != time.Hour {
				t.Errorf("standard reschedules hourly, got %v", d.NextCheck)
			}
		})
	}
}

func TestEvaluate_HighAndCriticalAlwaysFire(t *testing.T) {
	bills := []core.Bill{overdueBill("Rent", "07/05/2024")}

	d := Evaluate(at(16, 0), 8, 0, High, bills, nil)
	if !d.Notify {
		t.Error("high insistence fires on every eligible run")
	}
	if d.NextCheck != 4*time.Hour {
		t.Errorf("high interval = %v, want 4h", d.NextCheck)
	}

	d = Evaluate(at(16, 0), 8, 0, Critical, bills, nil)
	if !d.Notify {
		t.Error("critical insistence fires on every eligible run")
	}
	if d.NextCheck != 2*time.Hour {
		t.Errorf("critical interval = %v, want 2h", d.NextCheck)
	}
}

func TestEvaluate_MessageConstruction(t *testing.T) {
	cats := []core.Category{
		{ID: 1, Name: "Housing", Icon: "🏠"},
		{ID: 2, Name: "Transport", Icon: "directions_car"},
	}

	t.Run("single bill with emoji glyph", func(t *testing.T) {
		bills := []core.Bill{overdueBill("Rent", "07/05/2024")}
		d := Evaluate(at(8, 10), 8, 0, Standard, bills, cats)
		if d.Message != "🏠 Rent" {
			t.Errorf("message = %q, want %q", d.Message, "🏠 Rent")
		}
	})

	t.Run("icon-name category falls back to alert glyph", func(t *testing.T) {
		b := overdueBill("Bus pass", "07/05/2024")
		b.CategoryID = 2
		d := Evaluate(at(8, 10), 8, 0, Standard, []core.Bill{b}, cats)
		if d.Message != "🚨 Bus pass" {
			t.Errorf("message = %q, want %q", d.Message, "🚨 Bus pass")
		}
	})

	t.Run("extra bills get a count suffix", func(t *testing.T) {
		bills := []core.Bill{
			overdueBill("Rent", "07/05/2024"),
			overdueBill("Water", "08/05/2024"),
			overdueBill("Power", "09/05/2024"),
		}
		d := Evaluate(at(8, 10), 8, 0, Standard, bills, cats)
		if d.Message != "🏠 Rent (+2 more)" {
			t.Errorf("message = %q, want %q", d.Message, "🏠 Rent (+2 more)")
		}
	})
}

func TestEvaluate_DueTodayIsEligible(t *testing.T) {
	bills := []core.Bill{overdueBill("Rent", "10/05/2024")}
	d := Evaluate(at(8, 10), 8, 0, Standard, bills, nil)
	if !d.Notify {
		t.Error("a bill due today is pending for notification")
	}
}

func TestParseInsistence(t *testing.T) {
	tests := []struct {
		in   string
		want Insistence
	}{
		{"standard", Standard},
		{"high", High},
		{"critical", Critical},
		{"", Standard},
		{"whatever", Standard},
	}
	for _, tt := range tests {
		if got := ParseInsistence(tt.in); got != tt.want {
			t.Errorf("ParseInsistence(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTargetTime(t *testing.T) {
	tests := []struct {
		in     string
		wantH  int
		wantM  int
	}{
		{"08:00", 8, 0},
		{"21:30", 21, 30},
		{"25:00", 8, 0},
		{"garbage", 8, 0},
		{"", 8, 0},
	}
	for _, tt := range tests {
		h, m := ParseTargetTime(tt.in)
		if h != tt.wantH || m != tt.wantM {
			t.Errorf("ParseTargetTime(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.wantH, tt.wantM)
		}
	}
}
