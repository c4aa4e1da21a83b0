// Package publish pushes finished videos to their destinations: YouTube for
// the audience, S3 for the archive. Both are optional; a run that renders but
// cannot publish is still a successful run.
package publish

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Metadata describes a video listing.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

// YouTube uploads videos with a service-account credential.
type YouTube struct {
	service *youtube.Service
}

// NewYouTube builds an uploader from a service account JSON file.
func NewYouTube(ctx context.Context, serviceAccountFile string) (*YouTube, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}
	return &YouTube{service: service}, nil
}

// Upload publishes the video file and returns its video ID.
func (u *YouTube) Upload(videoPath string, metadata Metadata) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video file: %w", err)
	}
	log.Printf("📤 Uploading: %s (%.2f MB)", videoPath, float64(fileInfo.Size())/(1024*1024))

	privacy := metadata.Privacy
	if privacy == "" {
		privacy = "public"
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       metadata.Title,
			Description: metadata.Description,
			Tags:        metadata.Tags,
			CategoryId:  metadata.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           privacy,
			SelfDeclaredMadeForKids: false,
		},
	}

	call := u.service.Videos.Insert([]string{"snippet", "status"}, video)
	call = call.Media(file)

	response, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	log.Printf("✅ Uploaded! https://youtube.com/watch?v=%s", response.Id)
	return response.Id, nil
}

// GenerateMetadata builds a listing from the video title and its topic. The
// title is truncated to YouTube's 100-character limit.
func GenerateMetadata(title, topic string) Metadata {
	if len(title) > 100 {
		title = title[:97] + "..."
	}

	description := fmt.Sprintf(
		"%s\n\n"+
			"이 영상은 자동 생성되었습니다.\n"+
			"#지식 #교양 #정보",
		topic,
	)

	tags := []string{"지식", "교양", "정보"}
	for _, word := range strings.Fields(topic) {
		if len(tags) >= 10 {
			break
		}
		tags = append(tags, word)
	}

	return Metadata{
		Title:       title,
		Description: description,
		Tags:        tags,
		CategoryID:  "27", // Education
		Privacy:     "public",
	}
}
