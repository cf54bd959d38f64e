package handler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/answerly/answerly-api/internal/dto"
	"github.com/answerly/answerly-api/internal/service"
)

type evaluationServiceMock struct {
	evaluateFn func(ctx context.Context, reference, answer service.Document, scorerKind string) (dto.EvaluationResponse, error)
}

func (m *evaluationServiceMock) Evaluate(ctx context.Context, reference, answer service.Document, scorerKind string) (dto.EvaluationResponse, error) {
	return m.evaluateFn(ctx, reference, answer, scorerKind)
}

func newEvaluationApp(mock *evaluationServiceMock) *fiber.App {
	app := fiber.New()
	NewEvaluationHandler(mock, testLogger()).Register(app.Group("/evaluate"))
	return app
}

func TestEvaluateEndpointSuccess(t *testing.T) {
	var gotKind string
	mock := &evaluationServiceMock{
		evaluateFn: func(_ context.Context, reference, answer service.Document, scorerKind string) (dto.EvaluationResponse, error) {
			gotKind = scorerKind
			require.Equal(t, []byte("reference bytes"), reference.Data)
			require.Equal(t, []byte("answer bytes"), answer.Data)
			return dto.EvaluationResponse{
				ReferenceText:   "reference text",
				AnswerText:      "answer text",
				SimilarityScore: 0.8333,
				MarksObtained:   83.33,
				ModelUsed:       scorerKind,
			}, nil
		},
	}
	app := newEvaluationApp(mock)

	req := multipartRequest(t, "/evaluate/",
		map[string][]byte{
			"reference_file": []byte("reference bytes"),
			"answer_file":    []byte("answer bytes"),
		},
		map[string]string{"model": "sbert"},
	)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	require.Equal(t, "sbert", gotKind)

	payload := decodeResponse(t, res)
	require.Equal(t, "evaluation completed", payload.Message)

	var result dto.EvaluationResponse
	require.NoError(t, json.Unmarshal(payload.Data, &result))
	require.InDelta(t, 83.33, result.MarksObtained, 1e-9)
}

func TestEvaluateEndpointMissingParts(t *testing.T) {
	app := newEvaluationApp(&evaluationServiceMock{})

	cases := []struct {
		name   string
		files  map[string][]byte
		fields map[string]string
	}{
		{
			name:   "missing reference",
			files:  map[string][]byte{"answer_file": []byte("a")},
			fields: map[string]string{"model": "sbert"},
		},
		{
			name:   "missing answer",
			files:  map[string][]byte{"reference_file": []byte("r")},
			fields: map[string]string{"model": "sbert"},
		},
		{
			name: "missing model",
			files: map[string][]byte{
				"reference_file": []byte("r"),
				"answer_file":    []byte("a"),
			},
			fields: map[string]string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := app.Test(multipartRequest(t, "/evaluate/", tc.files, tc.fields))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusBadRequest, res.StatusCode)
		})
	}
}

func TestEvaluateEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "unknown model", err: service.ErrInvalidSelection, status: fiber.StatusBadRequest},
		{name: "no text", err: service.ErrNoTextFound, status: fiber.StatusBadRequest},
		{name: "extraction failed", err: service.ErrExtractionFailed, status: fiber.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &evaluationServiceMock{
				evaluateFn: func(_ context.Context, _, _ service.Document, _ string) (dto.EvaluationResponse, error) {
					return dto.EvaluationResponse{}, tc.err
				},
			}
			app := newEvaluationApp(mock)

			req := multipartRequest(t, "/evaluate/",
				map[string][]byte{
					"reference_file": []byte("r"),
					"answer_file":    []byte("a"),
				},
				map[string]string{"model": "sbert"},
			)
			res, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, res.StatusCode)

			payload := decodeResponse(t, res)
			require.False(t, payload.Success)
		})
	}
}
