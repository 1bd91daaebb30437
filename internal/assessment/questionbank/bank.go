// Package questionbank holds the fixed catalogue of assessment questions and
// their scoring rules. Each of the three sections is weighted so its maximum
// achievable contribution is exactly 50 points.
package questionbank

import (
	"strconv"
	"strings"
)

// Section is one of the three fixed question categories.
type Section string

const (
	SectionQualification Section = "qualification"
	SectionAptitude      Section = "aptitude"
	SectionReadiness     Section = "readiness"
)

// Modality describes how a question is answered.
type Modality string

const (
	// ModalityText is free-form numeric text input.
	ModalityText Modality = "text"
	// ModalitySingleChoice selects one option from an enumerated list.
	ModalitySingleChoice Modality = "single-choice"
)

// Question is an immutable catalogue entry.
type Question struct {
	ID       int
	Prompt   string
	Modality Modality
	Options  []string
	Section  Section
	Rule     ScoringRule
}

// AgePoints is the computed rule for the free-form age question: ages 17-30
// inclusive score 10, any other parseable age scores 5, unparseable input
// scores 0. A step function, not a curve.
func AgePoints(raw string) float64 {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	if age >= 17 && age <= 30 {
		return 10
	}
	return 5
}

// choicePoints builds an option-index point table from descending values.
func choicePoints(values ...float64) map[string]float64 {
	table := make(map[string]float64, len(values))
	for i, v := range values {
		table[strconv.Itoa(i)] = v
	}
	return table
}

// bank is the fixed, ordered question catalogue: 4 qualification questions
// (max 50), 14 aptitude questions (8x4 + 6x3 = max 50), 3 readiness questions
// (max 50).
var bank = []Question{
	{
		ID:       0,
		Prompt:   "What is your age?",
		Modality: ModalityText,
		Section:  SectionQualification,
		Rule:     FuncRule(AgePoints),
	},
	{
		ID:       1,
		Prompt:   "What is your highest level of education?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Bachelor's degree or higher",
			"High school diploma",
			"Currently finishing high school",
			"No diploma yet",
		},
		Section: SectionQualification,
		Rule:    TableRule(choicePoints(15, 12, 8, 4)),
	},
	{
		ID:       2,
		Prompt:   "How would you rate your English proficiency?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Fluent",
			"Advanced",
			"Conversational",
			"Basic",
		},
		Section: SectionQualification,
		Rule:    TableRule(choicePoints(15, 12, 8, 3)),
	},
	{
		ID:       3,
		Prompt:   "Do you have any medical conditions that could affect flying?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"None that I know of",
			"Corrected vision only",
			"A minor managed condition",
			"Prefer not to say",
		},
		Section: SectionQualification,
		Rule:    TableRule(choicePoints(10, 8, 5, 2)),
	},
	{
		ID:       4,
		Prompt:   "How do you handle mental arithmetic, like quickly estimating fuel or time?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Quickly and accurately in my head",
			"Accurately, given a moment",
			"I prefer pen and paper",
			"I reach for a calculator",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(4, 3, 2, 1)),
	},
	{
		ID:       5,
		Prompt:   "How good is your sense of direction in unfamiliar places?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Excellent, I rarely get lost",
			"Good, I reorient quickly",
			"Average, I rely on navigation apps",
			"Poor, I get turned around easily",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(4, 3, 2, 1)),
	},
	{
		ID:       6,
		Prompt:   "How well do you juggle several tasks at once under time pressure?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"I stay organized and on top of everything",
			"I manage, with some effort",
			"I handle two things at most",
			"I strongly prefer one task at a time",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(4, 3, 2, 1)),
	},
	{
		ID:       7,
		Prompt:   "When something unexpected happens, how fast do you react?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Instantly, almost on reflex",
			"Quickly, after a short assessment",
			"I need a moment to think it through",
			"I tend to freeze at first",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(4, 3, 2, 1)),
	},
	{
		ID:       8,
		Prompt:   "How comfortable are you reading maps, charts and diagrams?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Very comfortable, I enjoy them",
			"Comfortable with most of them",
			"I manage simple ones",
			"I find them confusing",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(4, 3, 2, 1)),
	},
	{
		ID:       9,
		Prompt:   "How would colleagues describe your attention to detail?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Meticulous, I catch what others miss",
			"Careful and thorough",
			"Reasonable, with occasional slips",
			"Big-picture, details are not my thing",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(4, 3, 2, 1)),
	},
	{
		ID:       10,
		Prompt:   "How do you make decisions when you don't have all the information?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Decisively, weighing what I know",
			"Carefully, but I commit in time",
			"I delay until I know more",
			"I find it very stressful",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(4, 3, 2, 1)),
	},
	{
		ID:       11,
		Prompt:   "How do you perform in genuinely stressful situations?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"I stay calm and focused",
			"Mostly composed, a little tense",
			"Functional but visibly stressed",
			"I get overwhelmed",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(4, 3, 2, 1)),
	},
	{
		ID:       12,
		Prompt:   "How well do you memorize sequences and procedures?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Very well, after one or two passes",
			"Well, with some repetition",
			"It takes me a while",
			"I need them written down",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(3, 2, 1, 0)),
	},
	{
		ID:       13,
		Prompt:   "How confident are you interpreting weather forecasts and patterns?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Confident, I follow weather closely",
			"Fairly confident with the basics",
			"I know rain from shine",
			"Not confident at all",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(3, 2, 1, 0)),
	},
	{
		ID:       14,
		Prompt:   "How is your hand-eye coordination (sports, driving, gaming)?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Excellent",
			"Good",
			"Average",
			"Below average",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(3, 2, 1, 0)),
	},
	{
		ID:       15,
		Prompt:   "How intuitive do you find physics and how machines work?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Very intuitive, I like taking things apart",
			"Fairly intuitive",
			"I understand with explanation",
			"It never really clicked",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(3, 2, 1, 0)),
	},
	{
		ID:       16,
		Prompt:   "How clearly do you communicate over radio or phone?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Very clearly and concisely",
			"Clearly, most of the time",
			"I sometimes have to repeat myself",
			"I prefer writing things down",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(3, 2, 1, 0)),
	},
	{
		ID:       17,
		Prompt:   "After making a mistake, how quickly do you regain focus?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Immediately, I correct and move on",
			"Quickly, after a short reset",
			"It lingers for a while",
			"It throws off the rest of my day",
		},
		Section: SectionAptitude,
		Rule:    TableRule(choicePoints(3, 2, 1, 0)),
	},
	{
		ID:       18,
		Prompt:   "When would you like to start training?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Within the next 3 months",
			"Within 6 months",
			"Within a year",
			"Just exploring for now",
		},
		Section: SectionReadiness,
		Rule:    TableRule(choicePoints(20, 15, 8, 3)),
	},
	{
		ID:       19,
		Prompt:   "How do you plan to fund your training?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Funding is already secured",
			"Exploring financing options",
			"I would need a payment plan",
			"Not sure yet",
		},
		Section: SectionReadiness,
		Rule:    TableRule(choicePoints(20, 15, 8, 3)),
	},
	{
		ID:       20,
		Prompt:   "How much time can you dedicate to training?",
		Modality: ModalitySingleChoice,
		Options: []string{
			"Full-time",
			"20+ hours a week",
			"Weekends only",
			"A few hours here and there",
		},
		Section: SectionReadiness,
		Rule:    TableRule(choicePoints(10, 8, 5, 2)),
	},
}

// All returns the ordered question catalogue. Callers must treat it as
// read-only.
func All() []Question {
	return bank
}

// Count returns the number of questions in the catalogue.
func Count() int {
	return len(bank)
}

// Get returns the question at index i.
func Get(i int) (Question, bool) {
	if i < 0 || i >= len(bank) {
		return Question{}, false
	}
	return bank[i], true
}
