// Package script turns a topic into a structured scene-by-scene script via an
// LLM with JSON-schema-enforced output. The language model is a black box:
// topic and config in, Script out or failure.
package script

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"aigongjang/config"
	"aigongjang/types"
)

// Generator drafts a script for a topic. Implementations must respect the
// context deadline and return a validated script.
type Generator interface {
	Generate(ctx context.Context, topic string, cfg config.RunConfig) (*types.Script, error)
}

// scriptResponse is the structured output schema sent to the model.
type scriptResponse struct {
	VideoTitle string          `json:"video_title" jsonschema_description:"Title of the video"`
	Scenes     []sceneResponse `json:"scenes" jsonschema_description:"Ordered list of scenes"`
}

type sceneResponse struct {
	Seq          int    `json:"seq" jsonschema_description:"1-based scene sequence number, unique per scene"`
	Narrative    string `json:"narrative" jsonschema_description:"Voiceover text for this scene, in the video's language"`
	VisualPrompt string `json:"visual_prompt" jsonschema_description:"Image-generation prompt in English. Multiple shots may be separated with ' || '. Prefix with 'stock:' to request stock footage instead."`
	SoundEffect  string `json:"sound_effect,omitempty" jsonschema_description:"Optional sound effect key: whoosh, impact, rain or crowd"`
}

// generateSchema reflects a Go type into a strict JSON schema for the
// structured-output API.
func generateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var scriptResponseSchema = generateSchema[scriptResponse]()

// OpenAIGenerator generates scripts with the OpenAI chat-completions API.
type OpenAIGenerator struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAIGenerator reads OPENAI_API_KEY from the environment.
func NewOpenAIGenerator() (*OpenAIGenerator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT4oMini,
	}, nil
}

// Generate asks the model for a scene-by-scene script and validates the result.
func (g *OpenAIGenerator) Generate(ctx context.Context, topic string, cfg config.RunConfig) (*types.Script, error) {
	ctx, cancel := context.WithTimeout(ctx, config.ScriptTimeout)
	defer cancel()

	prompt := buildPrompt(topic, cfg)

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "video_script",
		Description: openai.String("Scene-by-scene short video script"),
		Schema:      scriptResponseSchema,
		Strict:      openai.Bool(true),
	}

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: g.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		return nil, types.UpstreamGenerationError("script", err)
	}
	if len(completion.Choices) == 0 {
		return nil, types.UpstreamGenerationError("script", fmt.Errorf("model returned no choices"))
	}

	return ParseScript([]byte(completion.Choices[0].Message.Content))
}

func buildPrompt(topic string, cfg config.RunConfig) string {
	prompt := fmt.Sprintf(
		`Write a YouTube short video script for the topic: %q.
Produce exactly %d scenes. Each scene has a short voiceover narrative and a
visual_prompt describing the imagery in English. When a scene benefits from
several distinct shots, separate the shot prompts inside visual_prompt with
' || '. When real-world footage fits better than generated imagery, prefix
visual_prompt with 'stock:' followed by a search query.`,
		topic, cfg.SceneCount)
	if cfg.CharacterDesc != "" {
		prompt += fmt.Sprintf("\nThe recurring main character: %s. Keep them consistent across scenes.", cfg.CharacterDesc)
	}
	return prompt
}

// ParseScript decodes and validates a model response body.
func ParseScript(data []byte) (*types.Script, error) {
	var resp scriptResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, types.UpstreamGenerationError("script", fmt.Errorf("invalid JSON: %w", err))
	}

	s := &types.Script{Title: resp.VideoTitle}
	for _, sc := range resp.Scenes {
		s.Scenes = append(s.Scenes, types.Scene{
			Seq:          sc.Seq,
			Narrative:    sc.Narrative,
			VisualPrompt: sc.VisualPrompt,
			SoundEffect:  sc.SoundEffect,
		})
	}
	if err := s.Validate(); err != nil {
		return nil, types.UpstreamGenerationError("script", err)
	}
	return s, nil
}
