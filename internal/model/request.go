package model

type RegisterRequest struct {
	Name     string `json:"name" validate:"max=100"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
	IsAdmin  bool   `json:"isAdmin"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateChecklistRequest struct {
	Name string `json:"checklistName" validate:"required,max=100"`
}

type CreateChecklistItemRequest struct {
	Name        string              `json:"checklistItemName" validate:"required,max=100"`
	ChecklistID int64               `json:"checklistId" validate:"required,gt=0"`
	Status      ChecklistItemStatus `json:"status"`
}

type UpdateItemStatusRequest struct {
	Status ChecklistItemStatus `json:"status" validate:"required"`
}

type RenameItemRequest struct {
	Name string `json:"checklistItemName" validate:"required,max=100"`
}
