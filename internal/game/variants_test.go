package game

import "testing"

func TestVariantEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		q       Question
		a       Answer
		want    bool
	}{
		{
			name:    "complete word matching letter",
			variant: CompleteWord,
			q:       Question{MissingLetter: "B"},
			a:       Answer{Text: "B"},
			want:    true,
		},
		{
			name:    "complete word wrong letter",
			variant: CompleteWord,
			q:       Question{MissingLetter: "B"},
			a:       Answer{Text: "D"},
			want:    false,
		},
		{
			name:    "complete word empty submission",
			variant: CompleteWord,
			q:       Question{MissingLetter: ""},
			a:       Answer{Text: ""},
			want:    false,
		},
		{
			name:    "find error right position",
			variant: FindError,
			q:       Question{IncorrectWord: "BOLETA", ErrorPosition: 0},
			a:       Answer{Index: 0},
			want:    true,
		},
		{
			name:    "find error wrong position",
			variant: FindError,
			q:       Question{IncorrectWord: "BOLETA", ErrorPosition: 0},
			a:       Answer{Index: 3},
			want:    false,
		},
		{
			name:    "write word exact",
			variant: WriteWord,
			q:       Question{CorrectWord: "PELOTA"},
			a:       Answer{Text: "PELOTA"},
			want:    true,
		},
		{
			name:    "write word lowercase with spaces",
			variant: WriteWord,
			q:       Question{CorrectWord: "PELOTA"},
			a:       Answer{Text: "  pelota "},
			want:    true,
		},
		{
			name:    "write word misspelled",
			variant: WriteWord,
			q:       Question{CorrectWord: "PELOTA"},
			a:       Answer{Text: "PELOTO"},
			want:    false,
		},
		{
			name:    "order letters formed word",
			variant: OrderLetters,
			q:       Question{CorrectWord: "SOL"},
			a:       Answer{Text: "SOL"},
			want:    true,
		},
		{
			name:    "order letters partial word",
			variant: OrderLetters,
			q:       Question{CorrectWord: "SOL"},
			a:       Answer{Text: "SO"},
			want:    false,
		},
		{
			name:    "listen word matching option",
			variant: ListenWord,
			q:       Question{CorrectWord: "VACA"},
			a:       Answer{Text: "VACA"},
			want:    true,
		},
		{
			name:    "listen word distractor",
			variant: ListenWord,
			q:       Question{CorrectWord: "VACA"},
			a:       Answer{Text: "BACA"},
			want:    false,
		},
		{
			name:    "choose word correct option",
			variant: ChooseWord,
			q: Question{Options: []Option{
				{Text: "dedo", IsCorrect: true},
				{Text: "bebo", ConfusionType: "b-d"},
			}},
			a:    Answer{Index: 0},
			want: true,
		},
		{
			name:    "choose word distractor option",
			variant: ChooseWord,
			q: Question{Options: []Option{
				{Text: "dedo", IsCorrect: true},
				{Text: "bebo", ConfusionType: "b-d"},
			}},
			a:    Answer{Index: 1},
			want: false,
		},
		{
			name:    "choose word index out of range",
			variant: ChooseWord,
			q:       Question{Options: []Option{{Text: "dedo", IsCorrect: true}}},
			a:       Answer{Index: 4},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.variant.Evaluate(&tt.q, tt.a); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariantAttemptLimits(t *testing.T) {
	for _, v := range Variants() {
		want := 3
		if v.Slug == ChooseWord.Slug {
			want = 1
		}
		if v.MaxAttempts != want {
			t.Errorf("%s: MaxAttempts = %d, want %d", v.Slug, v.MaxAttempts, want)
		}
	}
}

func TestVariantBySlug(t *testing.T) {
	v, err := VariantBySlug("palabra-que-escuches")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.ReplayPenalty {
		t.Errorf("listen variant should charge for replays")
	}

	if _, err := VariantBySlug("no-such-game"); err == nil {
		t.Errorf("expected error for unknown slug")
	}
}
