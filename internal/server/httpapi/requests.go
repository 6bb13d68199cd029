package httpapi

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type favoriteRequest struct {
	ProductID string `json:"product_id" validate:"required,max=128"`
	Name      string `json:"name" validate:"max=200"`
	Brand     string `json:"brand" validate:"max=200"`
	Image     string `json:"image" validate:"max=2048"`
	Price     string `json:"price" validate:"omitempty,numeric"`
	Currency  string `json:"currency" validate:"omitempty,iso4217"`
}

type collectionRequest struct {
	ID          string `json:"id" validate:"max=64"`
	Name        string `json:"name" validate:"required,max=100"`
	Icon        string `json:"icon" validate:"max=16"`
	Description string `json:"description" validate:"max=500"`
	IsPublic    bool   `json:"is_public"`
}

type itemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=128"`
	Note      string `json:"note" validate:"max=500"`
}

type storeRequest struct {
	StoreID string `json:"store_id" validate:"required,max=128"`
	Name    string `json:"name" validate:"max=200"`
	Logo    string `json:"logo" validate:"max=2048"`
}

type settingsRequest struct {
	IsPublic *bool `json:"is_public" validate:"required"`
}
