package cms

import (
	"fmt"
	"strings"
)

// ImageResolver builds CDN URLs from content store asset references such as
// "image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg".
type ImageResolver struct {
	cdnURL    string
	projectID string
	dataset   string
}

// NewImageResolver creates a resolver for the given project and dataset
func NewImageResolver(cdnURL, projectID, dataset string) *ImageResolver {
	if cdnURL == "" {
		cdnURL = "https://cdn.sanity.io"
	}
	return &ImageResolver{
		cdnURL:    strings.TrimSuffix(cdnURL, "/"),
		projectID: projectID,
		dataset:   dataset,
	}
}

// Resolve returns the URL for ref. Absolute URLs pass through unchanged;
// anything that is not a valid image reference resolves to "".
func (r *ImageResolver) Resolve(ref string) string {
	if strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://") {
		return ref
	}

	body, ok := strings.CutPrefix(ref, "image-")
	if !ok {
		return ""
	}
	idx := strings.LastIndex(body, "-")
	if idx <= 0 || idx == len(body)-1 {
		return ""
	}
	name, ext := body[:idx], body[idx+1:]

	return fmt.Sprintf("%s/images/%s/%s/%s.%s", r.cdnURL, r.projectID, r.dataset, name, ext)
}

// ResolveAll resolves a gallery, skipping references that cannot be resolved
func (r *ImageResolver) ResolveAll(refs []string) []string {
	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		if u := r.Resolve(ref); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
