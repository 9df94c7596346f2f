package document

import "strings"

var (
	digitWords = [...]string{"", "일", "이", "삼", "사", "오", "육", "칠", "팔", "구"}
	placeWords = [...]string{"", "십", "백", "천"}
	groupWords = [...]string{"", "만", "억", "조", "경"}
)

// KoreanNumeral spells n in Sino-Korean words as printed on the legal amount
// line, e.g. 20108 → 이만백팔. Negative input is treated as zero.
func KoreanNumeral(n int64) string {
	if n <= 0 {
		return "영"
	}

	var groups []string
	for idx := 0; n > 0; idx++ {
		group := int(n % 10000)
		n /= 10000
		if group == 0 {
			continue
		}
		groups = append(groups, spellGroup(group)+groupWords[idx])
	}

	var b strings.Builder
	for i := len(groups) - 1; i >= 0; i-- {
		b.WriteString(groups[i])
	}
	return b.String()
}

// spellGroup renders 1..9999. A digit of one is dropped before 십, 백 and 천.
func spellGroup(group int) string {
	var parts [4]string
	for place := 0; place < 4; place++ {
		digit := group % 10
		group /= 10
		switch {
		case digit == 0:
		case digit == 1 && place > 0:
			parts[place] = placeWords[place]
		default:
			parts[place] = digitWords[digit] + placeWords[place]
		}
	}
	return parts[3] + parts[2] + parts[1] + parts[0]
}
