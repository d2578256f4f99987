package model

import "time"

type ChecklistItemStatus string

const (
	StatusIncomplete ChecklistItemStatus = "Incomplete"
	StatusInProgress ChecklistItemStatus = "InProgress"
	StatusCompleted  ChecklistItemStatus = "Completed"
)

func (s ChecklistItemStatus) Valid() bool {
	switch s {
	case StatusIncomplete, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Checklist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"checklistName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ChecklistItem struct {
	ID          int64               `json:"id"`
	Name        string              `json:"checklistItemName"`
	ChecklistID int64               `json:"checklistId"`
	Checklist   *Checklist          `json:"checklist,omitempty"`
	Status      ChecklistItemStatus `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

type ChecklistQuery struct {
	Page   int
	Limit  int
	Filter string
}

type ChecklistItemQuery struct {
	Page        int
	Limit       int
	ChecklistID int64
}

type ChecklistPage struct {
	Metadata   PageMeta    `json:"metadata"`
	Checklists []Checklist `json:"checklists"`
}

type ChecklistItemPage struct {
	Metadata       PageMeta        `json:"metadata"`
	ChecklistItems []ChecklistItem `json:"checklistItems"`
}
