package response

// Histogram counts answers per bucket for one question.
type Histogram struct {
	Never     int `json:"never"`
	Rarely    int `json:"rarely"`
	Sometimes int `json:"sometimes"`
	Often     int `json:"often"`
	Always    int `json:"always"`
}

func (h *Histogram) Add(b Bucket) {
	switch b {
	case Never:
		h.Never++
	case Rarely:
		h.Rarely++
	case Sometimes:
		h.Sometimes++
	case Often:
		h.Often++
	case Always:
		h.Always++
	}
}

func (h Histogram) Count(b Bucket) int {
	switch b {
	case Never:
		return h.Never
	case Rarely:
		return h.Rarely
	case Sometimes:
		return h.Sometimes
	case Often:
		return h.Often
	case Always:
		return h.Always
	}
	return 0
}

func (h Histogram) Total() int {
	return h.Never + h.Rarely + h.Sometimes + h.Often + h.Always
}
