package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/atable/backend/config"
	"github.com/atable/backend/internal/models"
)

// ImageGenerationRequest represents a request to the image generation API
type ImageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

// ImageGenerationResponse represents the image generation API response
type ImageGenerationResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url,omitempty"`
		B64JSON       string `json:"b64_json,omitempty"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
}

// ImageService generates recipe illustrations and stores them in S3
type ImageService struct {
	apiKey   string
	apiURL   string
	s3Config *config.S3Config
	client   *http.Client
}

// NewImageService creates a new ImageService instance
func NewImageService(apiKey, apiURL string, s3Config *config.S3Config) *ImageService {
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/images/generations"
	}
	return &ImageService{
		apiKey:   apiKey,
		apiURL:   apiURL,
		s3Config: s3Config,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// GenerateRecipeImage generates an illustration for a recipe, keyed on its
// image hint when present, and returns the stored image URL.
func (s *ImageService) GenerateRecipeImage(ctx context.Context, recipe *models.Recipe) (string, error) {
	prompt := buildRecipeImagePrompt(recipe)
	log.Printf("[ImageService] Generating image for recipe %q", recipe.Title)

	imageURL, err := s.GenerateImageFromPrompt(ctx, prompt, "1024x1024")
	if err != nil {
		return "", fmt.Errorf("failed to generate recipe image: %w", err)
	}
	return imageURL, nil
}

// GenerateImageFromPrompt generates an image from a text prompt, retrying
// transient failures.
func (s *ImageService) GenerateImageFromPrompt(ctx context.Context, prompt string, size string) (string, error) {
	const maxRetries = 3

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		imageURL, err := s.generateImageAttempt(ctx, prompt, size)
		if err == nil {
			return imageURL, nil
		}
		lastErr = err
		log.Printf("[ImageService] Attempt %d/%d failed: %v", attempt, maxRetries, err)
		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}
	return "", fmt.Errorf("failed to generate image after %d attempts: %w", maxRetries, lastErr)
}

func (s *ImageService) generateImageAttempt(ctx context.Context, prompt string, size string) (string, error) {
	reqBody := ImageGenerationRequest{
		Model:          "dall-e-3",
		Prompt:         prompt,
		N:              1,
		Size:           size,
		Quality:        "standard",
		ResponseFormat: "url",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result ImageGenerationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return "", fmt.Errorf("no image data in API response")
	}

	s3URL, err := s.downloadAndUploadToS3(ctx, result.Data[0].URL)
	if err != nil {
		// Provider URLs expire after a while but still beat no image.
		log.Printf("[ImageService] Failed to upload to S3, returning original URL: %v", err)
		return result.Data[0].URL, nil
	}
	return s3URL, nil
}

// downloadAndUploadToS3 downloads a generated image and uploads it to S3
func (s *ImageService) downloadAndUploadToS3(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image, status: %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	fileName := fmt.Sprintf("recipe-images/%s.png", uuid.New().String())
	return s.UploadImageToS3(ctx, imageData, fileName)
}

// UploadImageToS3 uploads image data to S3 and returns the public URL
func (s *ImageService) UploadImageToS3(ctx context.Context, imageData []byte, fileName string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName), nil
}

// buildRecipeImagePrompt builds a food photography prompt. The image hint
// carries the dish keywords when the recipe came out of the generator.
func buildRecipeImagePrompt(recipe *models.Recipe) string {
	subject := strings.ToLower(recipe.Title)
	if recipe.ImageHint != "" {
		subject = strings.ToLower(recipe.ImageHint)
	}

	categoryContext := ""
	switch recipe.Category {
	case models.CategoryEntree:
		categoryContext = ", elegant starter plating"
	case models.CategoryDessert:
		categoryContext = ", beautifully plated dessert"
	case models.CategoryBoisson:
		categoryContext = ", refreshing drink"
	case models.CategoryAperitif:
		categoryContext = ", appetizing finger food"
	case models.CategoryPlat:
		categoryContext = ", elegantly presented main dish"
	}

	prompt := "A professional food photography shot of " + subject + categoryContext +
		", french cuisine, shot with natural lighting, shallow depth of field, restaurant quality presentation, appetizing colors"
	if len(prompt) > 900 {
		prompt = prompt[:900]
	}
	return prompt
}
