package intent

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hi, I'm Dorothy", []string{"hi", "i", "m", "dorothy"}},
		{"I'm 15 years old!", []string{"i", "m", "#num", "years", "old"}},
		{"   ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIndex_ExactTemplateScoresOne(t *testing.T) {
	ix := NewIndex(DefaultTemplates)
	for _, phrase := range []string{"yesterday", "i took photos", "he touched me"} {
		m := ix.Best(phrase)
		if math.Abs(m.Score-1) > 1e-9 {
			t.Errorf("Best(%q) score = %f, want 1", phrase, m.Score)
		}
	}
}

func TestIndex_NumbersMatchPlaceholder(t *testing.T) {
	ix := NewIndex(DefaultTemplates)
	m := ix.Best("I'm 15")
	if m.Intent != ProvideAge {
		t.Errorf("Best(I'm 15) = %s (%q), want provide_age", m.Intent, m.Phrase)
	}
}

func TestIndex_UnknownWordsScoreZero(t *testing.T) {
	ix := NewIndex(DefaultTemplates)
	if m := ix.Best("zebra quantum"); m.Score != 0 || m.Intent != "" {
		t.Errorf("Best(unknown) = %+v, want zero match", m)
	}
	if m := ix.Best(""); m.Score != 0 {
		t.Errorf("Best(\"\") = %+v, want zero match", m)
	}
}

func TestIndex_UnseenWordsDilute(t *testing.T) {
	ix := NewIndex(DefaultTemplates)
	exact := ix.Best("my name is")
	diluted := ix.Best("my name is Dorothy")
	if diluted.Score >= exact.Score {
		t.Errorf("extra unseen word should lower the score: %f >= %f", diluted.Score, exact.Score)
	}
}

func TestIndex_TiesKeepFirstTemplate(t *testing.T) {
	ix := NewIndex([]Template{
		{ProvideName, "alpha beta"},
		{ProvideAge, "alpha beta"},
		{ProvideTiming, "gamma"},
	})
	if m := ix.Best("alpha beta"); m.Intent != ProvideName {
		t.Errorf("tie resolved to %s, want provide_name", m.Intent)
	}
}
