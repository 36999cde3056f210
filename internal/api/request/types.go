package request

// CreateGuestRequest is the request body for creating a guest identity
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	CommonPhrases []string `json:"common_phrases"`
	RarePhrases   []string `json:"rare_phrases"`
}

// JoinRequest is the request body for joining a game
type JoinRequest struct {
	Name string `json:"name"`
}

// ToggleRequest is the request body for toggling a card cell
type ToggleRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
