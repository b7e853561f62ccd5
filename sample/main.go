package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"

	"github.com/high-horse/sourceafis/config"
	"github.com/high-horse/sourceafis/matcher"
)

func main() {
	if path := os.Getenv("SOURCEAFIS_CONFIG"); path != "" {
		if err := config.Load(path); err != nil {
			log.Fatal(err)
		}
	} else {
		config.LoadDefaultConfig()
	}
	server := config.Config.Server

	rotation, maxAge, matchTimeout, err := server.Durations()
	if err != nil {
		log.Fatal(err)
	}
	output, err := openLog(server.LogDir, rotation, maxAge)
	if err != nil {
		log.Fatal(err)
	}
	log.SetOutput(output)

	app := newApp(output, matchTimeout)

	// Start server
	log.Println("Server starting on", server.Addr)
	log.Fatal(app.Listen(server.Addr))
}

func openLog(dir string, rotation, maxAge time.Duration) (io.Writer, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	rl, err := rotatelogs.New(
		filepath.Join(dir, "server.%Y%m%d%H%M.log"),
		rotatelogs.WithLinkName(filepath.Join(dir, "server.log")),
		rotatelogs.WithRotationTime(rotation),
		rotatelogs.WithMaxAge(maxAge),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open rotating log: %w", err)
	}
	return io.MultiWriter(os.Stderr, rl), nil
}

func newApp(output io.Writer, matchTimeout time.Duration) *fiber.App {
	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(MatchResponse{
				Error: err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{Output: output}))
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now(),
		})
	})

	// Fingerprint matching endpoint
	app.Post("/match", func(c *fiber.Ctx) error {
		return matchFingerprints(c, matchTimeout)
	})
	return app
}

func matchFingerprints(c *fiber.Ctx, matchTimeout time.Duration) error {
	start := time.Now()

	var req MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(MatchResponse{
			Error: "Invalid request body: " + err.Error(),
		})
	}

	// Validate input
	if req.ProbeTemplate == "" || req.CandidateTemplate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(MatchResponse{
			Error: "Both probe_template and candidate_template are required",
		})
	}

	probe, err := decodeTemplate(req.ProbeTemplate)
	if err != nil {
		return fmt.Errorf("probe template: %w", err)
	}
	candidate, err := decodeTemplate(req.CandidateTemplate)
	if err != nil {
		return fmt.Errorf("candidate template: %w", err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), matchTimeout)
	defer cancel()
	score, matched, details, err := compareTemplates(ctx, probe, candidate)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(MatchResponse{
			Error: "Failed to compare fingerprints: " + err.Error(),
		})
	}
	log.Println("Fingerprint comparison score:", score)

	// Prepare response
	response := MatchResponse{
		Score:      score,
		Similarity: score / matcher.MaxScore,
		Match:      matched,
		Elapsed:    time.Since(start).String(),
		Details:    details,
	}
	if matched {
		response.Message = fmt.Sprintf("Match found with score: %.2f", score)
	} else {
		response.Message = fmt.Sprintf("No match found, score: %.2f", score)
	}
	if ctx.Err() != nil {
		response.Message += " (time budget exhausted)"
	}
	return c.JSON(response)
}
