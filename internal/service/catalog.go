package service

import (
	"fmt"
	"sort"

	"github.com/roomvista/decor-services/visualizer/internal/constants"
)

// CatalogService validates style selections and renders the provider prompt.
// It is pure lookup over the catalog tables; no storage behind it.
type CatalogService interface {
	Validate(styleSlug, roomType, transformMode string) error
	BuildPrompt(styleSlug, roomType, transformMode string) (string, error)
	ListStyles() []string
	ListRoomTypes() []string
}

type catalog struct{}

func NewCatalogService() CatalogService {
	return &catalog{}
}

func (c *catalog) Validate(styleSlug, roomType, transformMode string) error {
	if _, ok := constants.StylePrompts[styleSlug]; !ok {
		return fmt.Errorf("unknown style %q", styleSlug)
	}

	if _, ok := constants.RoomTypes[roomType]; !ok {
		return fmt.Errorf("unknown room type %q", roomType)
	}

	if !constants.TransformModes[transformMode] {
		return fmt.Errorf("unknown transform mode %q", transformMode)
	}

	return nil
}

func (c *catalog) BuildPrompt(styleSlug, roomType, transformMode string) (string, error) {
	if err := c.Validate(styleSlug, roomType, transformMode); err != nil {
		return "", err
	}

	stylePrompt := constants.StylePrompts[styleSlug]
	room := constants.RoomTypes[roomType]

	switch transformMode {
	case constants.TransformModeStaging:
		return fmt.Sprintf("virtually stage this empty %s with furniture and decor, %s, photorealistic, keep walls, windows and flooring unchanged", room, stylePrompt), nil
	case constants.TransformModeDeclutter:
		return fmt.Sprintf("remove clutter and personal items from this %s photo, keep existing furniture and finishes, %s, photorealistic", room, stylePrompt), nil
	default:
		return fmt.Sprintf("redesign this %s photo, %s, photorealistic, keep room layout, windows and structural elements unchanged", room, stylePrompt), nil
	}
}

func (c *catalog) ListStyles() []string {
	styles := make([]string, 0, len(constants.StylePrompts))
	for slug := range constants.StylePrompts {
		styles = append(styles, slug)
	}

	sort.Strings(styles)

	return styles
}

func (c *catalog) ListRoomTypes() []string {
	rooms := make([]string, 0, len(constants.RoomTypes))
	for slug := range constants.RoomTypes {
		rooms = append(rooms, slug)
	}

	sort.Strings(rooms)

	return rooms
}
