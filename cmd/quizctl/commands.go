package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"quiz-data-client/internal/models"
	"quiz-data-client/internal/quiz"
)

var errUsage = errors.New("wrong arguments, see quizctl -h")

type cli struct {
	svc    *quiz.Service
	stdout io.Writer
}

type command func(ctx context.Context, args []string) error

func (c *cli) commands() map[string]command {
	return map[string]command{
		"quizzes":         c.quizzes,
		"quiz":            c.quiz,
		"create":          c.create,
		"save":            c.save,
		"add-question":    c.addQuestion,
		"update-question": c.updateQuestion,
		"delete-question": c.deleteQuestion,
		"save-attempt":    c.saveAttempt,
		"attempts":        c.attempts,
		"clear-attempts":  c.clearAttempts,
	}
}

func (c *cli) quizzes(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	quizzes, err := c.svc.GetAllQuizzes(ctx)
	if err != nil {
		return err
	}
	return c.print(quizzes)
}

func (c *cli) quiz(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	q, err := c.svc.GetQuizByID(ctx, args[0])
	if err != nil {
		return err
	}
	return c.print(q)
}

func (c *cli) create(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	var q models.QuizData
	if err := readJSON(args[0], &q); err != nil {
		return err
	}
	created, err := c.svc.CreateQuiz(ctx, q)
	if err != nil {
		return err
	}
	return c.print(created)
}

func (c *cli) save(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	var q models.QuizData
	if err := readJSON(args[0], &q); err != nil {
		return err
	}
	if q.ID == "" {
		return fmt.Errorf("%s: quiz has no id", args[0])
	}
	saved, err := c.svc.SaveQuiz(ctx, q)
	if err != nil {
		return err
	}
	return c.print(saved)
}

func (c *cli) addQuestion(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	var q models.Question
	if err := readJSON(args[1], &q); err != nil {
		return err
	}
	added, err := c.svc.AddQuestion(ctx, args[0], q)
	if err != nil {
		return err
	}
	return c.print(added)
}

func (c *cli) updateQuestion(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	var q models.Question
	if err := readJSON(args[1], &q); err != nil {
		return err
	}
	return c.svc.UpdateQuestion(ctx, args[0], q)
}

func (c *cli) deleteQuestion(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("question id %q: %w", args[1], err)
	}
	return c.svc.DeleteQuestion(ctx, args[0], id)
}

// userAnswer is one line of an answers file.
type userAnswer struct {
	QuestionID int           `json:"questionId"`
	UserAnswer models.Answer `json:"userAnswer"`
}

// saveAttempt grades the given answers against the quiz as it is now. Questions
// missing from the file count as skipped.
func (c *cli) saveAttempt(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	var given []userAnswer
	if err := readJSON(args[1], &given); err != nil {
		return err
	}
	q, err := c.svc.GetQuizByID(ctx, args[0])
	if err != nil {
		return err
	}

	byQuestion := make(map[int]models.Answer, len(given))
	for _, a := range given {
		byQuestion[a.QuestionID] = a.UserAnswer
	}
	score := 0
	records := make([]models.AnswerRecord, 0, len(q.Questions))
	for _, question := range q.Questions {
		answer := byQuestion[question.ID]
		correct := question.IsCorrect(answer)
		if correct {
			score++
		}
		records = append(records, models.AnswerRecord{
			QuestionID: question.ID,
			UserAnswer: answer,
			Correct:    correct,
		})
	}

	attempt, err := c.svc.SaveAttempt(ctx, *q, score, len(q.Questions), records)
	if err != nil {
		return err
	}
	return c.print(attempt)
}

func (c *cli) attempts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("attempts", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	quizID := fs.String("quiz", "", "only attempts of this quiz")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}
	attempts, err := c.svc.GetAttempts(ctx, *quizID)
	if err != nil {
		return err
	}
	return c.print(attempts)
}

func (c *cli) clearAttempts(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	return c.svc.ClearAttempts(ctx)
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
