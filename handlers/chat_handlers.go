package handlers

import (
	"context"
	"fmt"
	"strings"

	"app/analytics"
	"app/config"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// HandleAnalyticsChat answers a business question grounded in the cached
// analysis for the caller's session.
func HandleAnalyticsChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Question is required"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), analysisTimeout)
	defer cancel()

	result, err := analyticsService.CachedOrRun(ctx, sessionKey(c))
	if err != nil {
		logger.WithError(err).Error("chat: analysis unavailable")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Analysis data unavailable"})
	}

	answer, err := generateChatAnswer(ctx, question, analytics.BuildChatContext(result))
	if err != nil {
		logger.WithError(err).Error("chat: generation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "answer": answer})
}

// generateChatAnswer calls Gemini with the analysis context and the user's question.
func generateChatAnswer(ctx context.Context, question, businessContext string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-1.5-flash")

	prompt := fmt.Sprintf(`You are a professional business analytics assistant for a retail store.

BUSINESS DATA:
%s

USER QUESTION: %s

INSTRUCTIONS:
1. Answer based only on the provided business data
2. Provide specific numbers and insights
3. Format currency in Indian Rupees (₹)
4. Be professional and concise
5. If data is not available, clearly state so

Provide a professional response:`, businessContext, question)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return fmt.Sprint(resp.Candidates[0].Content.Parts[0]), nil
}
