package core

import "testing"

func TestYearMonthAdd(t *testing.T) {
	cases := []struct {
		start  YearMonth
		offset int
		want   YearMonth
	}{
		{YearMonth{2024, 6}, 0, YearMonth{2024, 6}},
		{YearMonth{2024, 6}, 1, YearMonth{2024, 7}},
		{YearMonth{2024, 12}, 1, YearMonth{2025, 1}},
		{YearMonth{2024, 1}, -1, YearMonth{2023, 12}},
		{YearMonth{2024, 1}, -13, YearMonth{2022, 12}},
		{YearMonth{2024, 6}, 18, YearMonth{2025, 12}},
		{YearMonth{2024, 6}, 19, YearMonth{2026, 1}},
		{YearMonth{2024, 6}, -30, YearMonth{2021, 12}},
	}
	for i, tc := range cases {
		if got := tc.start.Add(tc.offset); got != tc.want {
			t.Fatalf("case %d: %v.Add(%d) = %v, want %v", i, tc.start, tc.offset, got, tc.want)
		}
	}
}

func TestYearMonthContains(t *testing.T) {
	feb := YearMonth{2024, 2}
	cases := []struct {
		d    Date
		want bool
	}{
		{NewDate(2024, 2, 1), true},
		{NewDate(2024, 2, 29), true}, // leap-year last day
		{NewDate(2024, 1, 31), false},
		{NewDate(2024, 3, 1), false},
		{NewDate(2023, 2, 15), false},
	}
	for i, tc := range cases {
		if got := feb.Contains(tc.d); got != tc.want {
			t.Fatalf("case %d: Contains(%s) = %v, want %v", i, tc.d, got, tc.want)
		}
	}
}

func TestYearMonthString(t *testing.T) {
	if got := (YearMonth{2024, 2}).String(); got != "2024-02" {
		t.Fatalf("got %q", got)
	}
}

func TestYearMonthIsValid(t *testing.T) {
	if !(YearMonth{2024, 1}).IsValid() || !(YearMonth{2024, 12}).IsValid() {
		t.Fatal("months 1 and 12 should be valid")
	}
	if (YearMonth{2024, 0}).IsValid() || (YearMonth{2024, 13}).IsValid() {
		t.Fatal("months 0 and 13 should be invalid")
	}
}

func TestMonthOf(t *testing.T) {
	if got := MonthOf(NewDate(2024, 2, 29)); got != (YearMonth{2024, 2}) {
		t.Fatalf("got %v", got)
	}
}
