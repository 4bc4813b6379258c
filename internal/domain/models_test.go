package domain

import (
	"errors"
	"testing"
)

func TestParseDifficulty(t *testing.T) {
	for _, d := range Difficulties {
		got, err := ParseDifficulty(string(d))
		if err != nil {
			t.Fatalf("parse %s: %v", d, err)
		}
		if got != d {
			t.Fatalf("expected %s, got %s", d, got)
		}
	}

	for _, raw := range []string{"impossible", "", "Easy", "very-hard"} {
		if _, err := ParseDifficulty(raw); !errors.Is(err, ErrInvalidDifficulty) {
			t.Fatalf("expected invalid difficulty for %q, got %v", raw, err)
		}
	}
}

func TestPublicHidesCorrectIndex(t *testing.T) {
	q := Question{Text: "2 + 2?", Answers: []string{"3", "4"}, CorrectIndex: 1}
	pub := q.Public()
	if pub.Text != q.Text || len(pub.Answers) != 2 {
		t.Fatalf("unexpected public view %+v", pub)
	}
	pub.Answers[0] = "mutated"
	if q.Answers[0] != "3" {
		t.Fatalf("public view must not alias question answers")
	}
}
