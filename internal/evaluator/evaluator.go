// Package evaluator wraps the Gemini API behind the two calls the games
// need: grading a piece of free writing and answering an open question in a
// given persona. Responses are returned as raw text; callers own the parsing
// and must tolerate arbitrary output.
package evaluator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

//go:embed prompts/grade_writing.txt
var gradeWritingPrompt string

//go:embed prompts/expert_answer.txt
var expertAnswerPrompt string

var (
	gradeTmpl  = template.Must(template.New("grade_writing").Parse(gradeWritingPrompt))
	expertTmpl = template.Must(template.New("expert_answer").Parse(expertAnswerPrompt))
)

const modelName = "gemini-2.5-flash"

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    zerolog.Logger
}

func New(ctx context.Context, apiKey string, log zerolog.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Client{
		client: client,
		model:  client.GenerativeModel(modelName),
		log:    log,
	}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

// Evaluate grades a student submission against an instruction. The response
// is expected to start with a "Score: N" line but is returned verbatim.
func (c *Client) Evaluate(ctx context.Context, instruction, submission string) (string, error) {
	prompt, err := buildGradePrompt(instruction, submission)
	if err != nil {
		return "", err
	}
	resp, err := c.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("evaluating submission: %w", err)
	}
	c.log.Debug().Int("response_len", len(resp)).Msg("submission graded")
	return resp, nil
}

// Explain answers an open question in the voice of the given persona.
func (c *Client) Explain(ctx context.Context, persona, question string) (string, error) {
	prompt, err := buildExpertPrompt(persona, question)
	if err != nil {
		return "", err
	}
	resp, err := c.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("answering question: %w", err)
	}
	return resp, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return strings.TrimSpace(string(text)), nil
}

func buildGradePrompt(instruction, submission string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Instruction, Submission string }{instruction, submission}
	if err := gradeTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildExpertPrompt(persona, question string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Persona, Question string }{persona, question}
	if err := expertTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
