package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/math-practice/backend/internal/models"
)

var difficultyInstructions = map[models.Difficulty]string{
	models.DifficultyEasy: `EASY level requirements:
- Use simple, straightforward language
- The problem should take 1-2 steps to solve
- Use small, round numbers (under 100 for most operations)
- Focus on: basic addition/subtraction, simple fractions (halves, quarters), decimals with 1-2 places, simple money problems
- Example: "Sarah has 3 bags of apples. Each bag has 8 apples. How many apples does she have in total?"`,

	models.DifficultyMedium: `MEDIUM level requirements:
- Use age-appropriate language with some complexity
- The problem should take 2-3 steps to solve
- Use moderate numbers and mixed operations
- Focus on: multi-step operations, mixed numbers, decimals up to 3 places, percentage basics, simple ratio
- Example: "A shop sold 2 1/2 kg of rice at $3.60 per kg and 1 1/4 kg of beans at $2.80 per kg. What was the total cost?"`,

	models.DifficultyHard: `HARD level requirements:
- Use richer scenarios with several steps
- The problem should take 3-4 steps to solve
- Use larger numbers and multiple operations
- Focus on: complex word problems, harder fractions, percentage with GST/discount/interest, rate, ratio, area/volume
- Example: "A machine produces 360 toys in 6 hours. If the factory runs for 8 hours and packs the toys in boxes of 12, how many boxes can be filled?"`,
}

var problemTypeInstructions = map[models.ProblemType]string{
	models.ProblemTypeMixed:          "- Use ANY operation (addition, subtraction, multiplication, division, or a combination)",
	models.ProblemTypeAddition:       "- Focus PRIMARILY on addition (some subtraction is fine for context)",
	models.ProblemTypeSubtraction:    "- Focus PRIMARILY on subtraction (some addition is fine for context)",
	models.ProblemTypeMultiplication: "- Focus PRIMARILY on multiplication (some division is fine for context)",
	models.ProblemTypeDivision:       "- Focus PRIMARILY on division (some multiplication is fine for context)",
}

// ProblemSystemPrompt returns the system prompt for problem generation.
func ProblemSystemPrompt() string {
	return `You write math word problems for Primary 5 students (age 10-11) following the Singapore Mathematics Curriculum.

PRIMARY 5 TOPICS (choose ONE at random):
- Whole numbers: four operations, order of operations
- Fractions: addition, subtraction, multiplication of fractions and mixed numbers
- Decimals: four operations with decimals
- Percentage: percentage of a whole, discount, GST, simple interest
- Rate: speed, price per unit
- Ratio: dividing a quantity in a given ratio
- Area: rectangles, squares, triangles, composite figures
- Volume: cubes and cuboids
- Money: real-world money problems with decimals

RULES:
- Use real-world contexts (shopping, travel, measurements, school)
- The final answer must be a single number (whole number or decimal), with no units
- The hint guides the student without giving away the answer
- Solution steps are short, numbered, and show the arithmetic

OUTPUT:
Return ONLY a JSON object, no markdown and no code fences, with exactly these fields:
{
  "problem_text": "The complete word problem",
  "final_answer": 975,
  "hint": "A hint that does not reveal the answer",
  "solution_steps": ["Step 1: ...", "Step 2: ..."]
}`
}

// BuildProblemPrompt builds the user prompt for one problem. Unknown
// difficulty or problem type values are rejected.
func BuildProblemPrompt(difficulty models.Difficulty, problemType models.ProblemType) (string, error) {
	diffText, ok := difficultyInstructions[difficulty]
	if !ok {
		return "", fmt.Errorf("unknown difficulty %q", difficulty)
	}
	typeText, ok := problemTypeInstructions[problemType]
	if !ok {
		return "", fmt.Errorf("unknown problem type %q", problemType)
	}

	var b strings.Builder
	b.WriteString("Generate ONE math word problem.\n\n")
	b.WriteString(diffText)
	b.WriteString("\n\nProblem type requirement (")
	b.WriteString(string(problemType))
	b.WriteString("):\n")
	b.WriteString(typeText)
	b.WriteString("\n\nExample of the expected JSON:\n")
	b.WriteString(`{
  "problem_text": "A bakery sold 156 cupcakes in the morning and 234 cupcakes in the afternoon. Each cupcake costs $2.50. How much money did the bakery collect that day?",
  "final_answer": 975,
  "hint": "First find the total number of cupcakes sold, then multiply by the price of one cupcake.",
  "solution_steps": [
    "Step 1: Add the cupcakes sold: 156 + 234 = 390",
    "Step 2: Multiply by the price: 390 x $2.50 = $975"
  ]
}`)
	return b.String(), nil
}

// FeedbackInput is the context the tutor needs to explain a verdict.
type FeedbackInput struct {
	ProblemText   string
	CorrectAnswer float64
	UserAnswer    float64
	IsCorrect     bool
}

func FeedbackSystemPrompt() string {
	return `You are a friendly, encouraging math tutor for Primary 5 students (age 10-11).
Reply with plain text only: 2-4 short sentences, age-appropriate and kind.`
}

// BuildFeedbackPrompt describes the graded attempt. The verdict is stated
// explicitly so the feedback never contradicts it.
func BuildFeedbackPrompt(in FeedbackInput) string {
	result := "INCORRECT"
	if in.IsCorrect {
		result = "CORRECT"
	}

	return fmt.Sprintf(`Problem: %s
Correct answer: %s
Student's answer: %s
Result: %s

Write personalised feedback for the student.

If CORRECT:
- Praise their work
- Briefly say why the answer is right

If INCORRECT:
- Be supportive
- Gently explain what went wrong
- Show the correct approach or calculation
- Encourage them to try another one`,
		in.ProblemText, FormatNumber(in.CorrectAnswer), FormatNumber(in.UserAnswer), result)
}

// FormatNumber renders a float without trailing zeros (7, 12.5).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
