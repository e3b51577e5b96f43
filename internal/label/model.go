package label

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrFetchLabels           = errors.New("could not fetch the labels")
	ErrListLabelsUnsupported = errors.New("listing project labels is not supported by this repository")
	ErrTextRequired          = errors.New("label text is required")
	ErrInvalidColor          = errors.New("background color must be #rrggbb")
)

// Kind selects which label collection of a project is addressed.
type Kind string

const (
	CategoryType Kind = "category-types"
	SpanType     Kind = "span-types"
	RelationType Kind = "relation-types"
)

// DefaultBackgroundColor is used when a label is created without a color.
const DefaultBackgroundColor = "#209cee"

// Item is a label type of a project.
type Item struct {
	ID              int
	Text            string
	PrefixKey       *string
	SuffixKey       *string
	BackgroundColor string
	TextColor       string
}

// ProjectLabel is the raw label text returned by the project labels endpoint.
type ProjectLabel struct {
	Text string `json:"text"`
}

// CreateRequest holds the fields needed to create a label.
type CreateRequest struct {
	Text            string
	PrefixKey       *string
	SuffixKey       *string
	BackgroundColor string
}

// NewItem builds an unsaved label whose text color contrasts with backgroundColor.
func NewItem(text string, prefixKey, suffixKey *string, backgroundColor string) (Item, error) {
	if strings.TrimSpace(text) == "" {
		return Item{}, ErrTextRequired
	}
	if backgroundColor == "" {
		backgroundColor = DefaultBackgroundColor
	}

	textColor, err := ContrastColor(backgroundColor)
	if err != nil {
		return Item{}, err
	}

	return Item{
		Text:            text,
		PrefixKey:       prefixKey,
		SuffixKey:       suffixKey,
		BackgroundColor: backgroundColor,
		TextColor:       textColor,
	}, nil
}

// ContrastColor returns black for light backgrounds and white for dark ones.
func ContrastColor(hex string) (string, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return "", ErrInvalidColor
	}

	var rgb [3]float64
	for i := range rgb {
		v, err := strconv.ParseUint(hex[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return "", ErrInvalidColor
		}
		rgb[i] = float64(v)
	}

	if rgb[0]*0.299+rgb[1]*0.587+rgb[2]*0.114 > 186 {
		return "#000000", nil
	}
	return "#ffffff", nil
}
