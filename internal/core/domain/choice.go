package domain

const MaxChoiceTextLength = 200

type Choice struct {
	ID           int64  `json:"id"`
	QuestionName string `json:"question"`
	Text         string `json:"choice_text"`
	Votes        int    `json:"votes"`
}

func (c Choice) String() string {
	return c.Text
}

type ChoiceResult struct {
	Choice
	Percentage float64 `json:"percentage"`
}
