package analyzer

import (
	"reflect"
	"testing"
)

func TestAnalyzeLowercasesAndSplits(t *testing.T) {
	a := New(Options{})

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple", "Hello World", []string{"hello", "world"}},
		{"punctuation", "the dog chased who ?", []string{"the", "dog", "chased", "who"}},
		{"mixed boundaries", "TF-IDF: term/frequency", []string{"tf", "idf", "term", "frequency"}},
		{"digits kept", "doc42 v2", []string{"doc42", "v2"}},
		{"empty", "", []string{}},
		{"only separators", " .,;! ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Analyze(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Analyze(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnalyzeStopWords(t *testing.T) {
	a := New(Options{RemoveStopWords: true})

	got := a.Analyze("the cat is on the mat")
	want := []string{"cat", "mat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze with stop words = %v, want %v", got, want)
	}
}

func TestAnalyzeStemming(t *testing.T) {
	a := New(Options{Stem: true})

	tests := []struct {
		word string
		want string
	}{
		{"chased", "chas"},
		{"running", "runn"},
		{"played", "play"},
		{"cats", "cat"},
	}
	for _, tt := range tests {
		got := a.Analyze(tt.word)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("Analyze(%q) = %v, want [%q]", tt.word, got, tt.want)
		}
	}
}

func TestAnalyzeMinTokenLength(t *testing.T) {
	a := New(Options{MinTokenLength: 3})

	got := a.Analyze("a an the cat")
	want := []string{"the", "cat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze with min length 3 = %v, want %v", got, want)
	}
}

func TestAnalyzeSameRuleForCorpusAndQuery(t *testing.T) {
	a := New(Options{})

	doc := a.Analyze("The CAT sat!")
	query := a.Analyze("the cat sat")
	if !reflect.DeepEqual(doc, query) {
		t.Errorf("document terms %v differ from query terms %v", doc, query)
	}
}
