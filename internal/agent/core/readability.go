package core

import (
	"errors"
	"strings"
	"unicode"
)

// neutralReadability substitutes for a score that could not be computed.
const neutralReadability = 50.0

var errNoText = errors.New("no scorable text")

// fleschReadingEase computes the standard reading-ease score
// 206.835 - 1.015*(words/sentences) - 84.6*(syllables/words).
// Higher is easier; typical news prose lands between 50 and 70.
func fleschReadingEase(text string) (float64, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0, errNoText
	}

	sentences := countSentences(text)
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))
	return 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord, nil
}

func countSentences(text string) int {
	count := 0
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			count++
		}
	}
	return count
}

// countSyllables approximates syllables as runs of vowels, with the usual
// silent-e adjustment. Every word counts as at least one.
func countSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	if word == "" {
		return 1
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
