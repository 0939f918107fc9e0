package valueobjects

import "fmt"

// Verdict is the expert's conclusion recorded on completion.
type Verdict string

const (
	VerdictAuthentic Verdict = "AUTHENTIC"
	VerdictFake      Verdict = "FAKE"
)

func (v Verdict) String() string {
	return string(v)
}

func (v Verdict) IsValid() bool {
	return v == VerdictAuthentic || v == VerdictFake
}

func (v Verdict) IsAuthentic() bool {
	return v == VerdictAuthentic
}

func NewVerdict(s string) (Verdict, error) {
	v := Verdict(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid verdict: %s", s)
	}
	return v, nil
}
