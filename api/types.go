package api

// Profile is the authenticated user's account record.
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// ClothData is the metadata blob submitted alongside an uploaded photo.
// Typ, Size, and SizeMetrics are required; the rest depend on the
// clothing type.
type ClothData struct {
	Typ         string `json:"typ"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	Size        string `json:"size"`
	Color       string `json:"color,omitempty"`
	Material    string `json:"material,omitempty"`
	Brand       string `json:"brand,omitempty"`
	SizeMetrics string `json:"size_metrics"`
	NeckType    string `json:"neckType,omitempty"`
	SleeveType  string `json:"sleeveType,omitempty"`
	FitType     string `json:"fitType,omitempty"`
	SkirtType   string `json:"skirtType,omitempty"`
}

// Cloth is a wardrobe item as the backend returns it. Type-specific
// fields are empty for other categories.
type Cloth struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Material    string `json:"material"`
	Brand       string `json:"brand"`
	SizeMetrics string `json:"size_metrics"`
	NeckType    string `json:"neckType"`
	SleeveType  string `json:"sleeveType"`
	FitType     string `json:"fitType"`
	SkirtType   string `json:"skirtType"`
	ImgURL      string `json:"imgUrl"`
}

// Outfits is the owner's wardrobe grouped by category.
type Outfits struct {
	Tshirts []Cloth `json:"tshirts"`
	Jeans   []Cloth `json:"jeans"`
	Skirts  []Cloth `json:"skirts"`
}

// SharedItem is a wardrobe item seen through a share, with the viewer's
// favorite flag.
type SharedItem struct {
	Item       Cloth `json:"item"`
	IsFavorite bool  `json:"isFavorite"`
}

// SharedWardrobe is one share relationship.
type SharedWardrobe struct {
	ID                 int64  `json:"id"`
	OwnerUsername      string `json:"ownerUsername"`
	SharedWithUsername string `json:"sharedWithUsername"`
	IsActive           bool   `json:"isActive"`
}

// OAuth2CallbackResult is the exchange result for an authorization code.
// Token+Username means an existing linked account; Email alone means the
// profile still needs completing.
type OAuth2CallbackResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// MessageResult is the common `{message, token?}` response shape.
type MessageResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
