package classifier

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var polarityKeywords = map[string][]string{
	Positive: {
		"楽し", "たのし", "嬉し", "うれし", "好き", "大好き", "最高", "素晴らし", "すばらし",
		"良い", "良かっ", "よかっ", "いい", "幸せ", "しあわせ", "感謝", "ありがとう", "満足",
		"面白", "おもしろ", "美味し", "おいし", "素敵", "すてき", "感動", "快適", "便利",
		"安心", "成功", "喜", "わくわく", "ワクワク", "楽しみ", "優し", "やさし", "綺麗", "きれい",
		"good", "great", "love", "happy",
	},
	Negative: {
		"悲し", "かなし", "辛い", "つらい", "最悪", "嫌い", "嫌", "いや", "怒", "腹立", "不満",
		"残念", "疲れ", "寂し", "さびし", "怖", "こわい", "不安", "痛", "退屈", "つまらな",
		"まずい", "不味", "失敗", "困", "最低", "ひどい", "酷い", "苦し", "くるし", "心配",
		"良くない", "よくない", "うざ", "むかつ", "ムカつ", "がっかり", "ダメ", "だめ", "駄目",
		"bad", "worst", "hate", "sad",
	},
}

// Suffixes that flip the polarity of the keyword they follow.
var negationSuffixes = []string{
	"くない", "くなかった", "くありません", "じゃない", "じゃなかった", "ではない", "ではなかった",
	"ない", "なかった", "ません", "ず",
}

type keyword struct {
	text     string
	polarity string
}

// lexicon is an offline keyword classifier for Japanese text. Matching is
// longest-first over width-folded text, and a negation suffix directly after
// a keyword flips its polarity.
type lexicon struct {
	keywords []keyword
}

func NewLexicon() Classifier {
	var kws []keyword
	for pol, words := range polarityKeywords {
		for _, w := range words {
			kws = append(kws, keyword{text: normalize(w), polarity: pol})
		}
	}
	sort.Slice(kws, func(i, j int) bool {
		li, lj := len(kws[i].text), len(kws[j].text)
		if li != lj {
			return li > lj
		}
		return kws[i].text < kws[j].text
	})
	return &lexicon{keywords: kws}
}

// normalize folds full/half width before NFKC so that "ﾀﾞﾒ" and "ダメ",
// or "ＧＯＯＤ" and "good", compare equal.
func normalize(s string) string {
	return strings.ToLower(norm.NFKC.String(width.Fold.String(s)))
}

func (l *lexicon) Classify(_ context.Context, text string) (Prediction, error) {
	pos, neg := l.count(normalize(text))
	return score(pos, neg), nil
}

func (l *lexicon) count(s string) (pos, neg int) {
	for i := 0; i < len(s); {
		kw, ok := l.match(s[i:])
		if !ok {
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			continue
		}
		i += len(kw.text)

		polarity := kw.polarity
		if suffix, negated := negation(s[i:]); negated {
			i += len(suffix)
			polarity = flip(polarity)
		}
		if polarity == Positive {
			pos++
		} else {
			neg++
		}
	}
	return pos, neg
}

func (l *lexicon) match(s string) (keyword, bool) {
	for _, kw := range l.keywords {
		if strings.HasPrefix(s, kw.text) {
			return kw, true
		}
	}
	return keyword{}, false
}

func negation(s string) (string, bool) {
	for _, suf := range negationSuffixes {
		if strings.HasPrefix(s, suf) {
			return suf, true
		}
	}
	return "", false
}

func flip(polarity string) string {
	if polarity == Positive {
		return Negative
	}
	return Positive
}

// score turns keyword counts into a prediction. Confidence is the
// Laplace-smoothed share of the winning polarity; ties are neutral.
func score(pos, neg int) Prediction {
	total := float64(pos + neg)
	switch {
	case pos > neg:
		return Prediction{Label: Positive, Score: round4((float64(pos) + 1) / (total + 2))}
	case neg > pos:
		return Prediction{Label: Negative, Score: round4((float64(neg) + 1) / (total + 2))}
	default:
		return Prediction{Label: Neutral, Score: 0.5}
	}
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
