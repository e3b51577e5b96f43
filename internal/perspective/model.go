package perspective

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrNameRequired     = errors.New("perspective name is required")
	ErrQuestionRequired = errors.New("perspective question is required")
	ErrInvalidDataType  = errors.New("unsupported perspective data type")
	ErrOptionsRequired  = errors.New("a choice perspective needs options")
	ErrAnswerRequired   = errors.New("answer is required")
)

// DataType is the kind of value a perspective question expects.
type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeInt     DataType = "int"
	DataTypeBoolean DataType = "boolean"
	DataTypeChoice  DataType = "choice"
)

var dataTypes = []DataType{DataTypeString, DataTypeInt, DataTypeBoolean, DataTypeChoice}

// Valid reports whether d is a known data type.
func (d DataType) Valid() bool {
	return slices.Contains(dataTypes, d)
}

// Perspective is a question annotators answer about themselves or an example.
type Perspective struct {
	ID       int
	Name     string
	Question string
	DataType DataType
	Options  []string
	Group    *int
	Project  int
}

// Group bundles related perspective questions.
type Group struct {
	ID          int
	Name        string
	Description string
	Questions   []Perspective
	CreatedAt   time.Time
}

// Answer is one annotator's answer to a perspective question.
type Answer struct {
	ID                int
	Perspective       int
	Project           int
	Example           *int
	Answer            string
	CreatedBy         *int
	CreatedByUsername *string
	CreatedAt         time.Time
}

// CreateRequest holds the fields needed to create or replace a perspective.
type CreateRequest struct {
	Name     string
	Question string
	DataType DataType
	Options  []string
	Group    *int
}

// Validate checks the request before it is sent.
func (r CreateRequest) Validate() error {
	if r.Name == "" {
		return ErrNameRequired
	}
	if r.Question == "" {
		return ErrQuestionRequired
	}
	if !r.DataType.Valid() {
		return ErrInvalidDataType
	}
	if r.DataType == DataTypeChoice && len(r.Options) == 0 {
		return ErrOptionsRequired
	}
	return nil
}

// GroupRequest holds the fields needed to create a group.
type GroupRequest struct {
	Name        string
	Description string
}

// AnswerRequest holds the fields needed to answer a perspective.
type AnswerRequest struct {
	Perspective int
	Example     *int
	Answer      string
}
