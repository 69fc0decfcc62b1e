// Package model defines the normalized entities handed to callers of the roadtrip client.
// Whatever field names the backend used, these shapes have one identifier field and
// enum values drawn only from the current sets below.
package model

import (
	"slices"
	"strings"
)

// Category classifies a checklist element.
type Category string

const (
	CategoryItem Category = "ITEM"
	CategoryTask Category = "TASK"

	// categoryTodo is the retired spelling of CategoryTask.
	categoryTodo Category = "TODO"
)

// Categories lists the members the backend currently accepts.
var Categories = []Category{CategoryItem, CategoryTask}

// ParseCategory upper-cases s and maps it onto a current member. The retired TODO
// becomes TASK; anything unknown or empty becomes ITEM.
func ParseCategory(s string) Category {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CategoryItem, CategoryTask:
		return c
	case categoryTodo:
		return CategoryTask
	}
	return CategoryItem
}

// Valid reports whether c is a current member.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Priority ranks a checklist element.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists the valid priorities, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority upper-cases s; unknown or empty values become MEDIUM.
func ParsePriority(s string) Priority {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if p.Valid() {
		return p
	}
	return PriorityMedium
}

// Valid reports whether p is one of Priorities.
func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

// ChecklistElement is one entry of a roadtrip checklist.
type ChecklistElement struct {
	ID           int64    `json:"checklistElementId"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Category     Category `json:"category"`
	Priority     Priority `json:"priority"`
	Completed    bool     `json:"completed"`
	AssignedUser string   `json:"assignedUser,omitempty"`
}

// ChecklistInput is what a caller submits to create or update a checklist element.
// Zero values mean "not supplied" and are defaulted on the way out.
type ChecklistInput struct {
	Name         string
	Description  string
	Category     string
	Priority     string
	Completed    bool
	AssignedUser string
}

// Waypoint is a single stop on a route.
type Waypoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label,omitempty"`
}

// Route is a named, ordered list of waypoints within a roadtrip.
type Route struct {
	ID        int64      `json:"routeId"`
	Name      string     `json:"name"`
	Waypoints []Waypoint `json:"waypoints"`
}

// RouteInput is what a caller submits to create a route.
type RouteInput struct {
	Name      string
	Waypoints []Waypoint
}

// Overview bundles the checklist and routes of one roadtrip.
type Overview struct {
	RoadtripID int64              `json:"roadtripId"`
	Checklist  []ChecklistElement `json:"checklist"`
	Routes     []Route            `json:"routes"`
}
