package models

// StoreSettings stores storefront contact and checkout settings managed via
// the admin panel. There should be only one row.
type StoreSettings struct {
	BaseModel
	StoreName        string `json:"store_name"`
	WhatsAppNumber   string `json:"whatsapp_number"`
	WhatsAppGreeting string `json:"whatsapp_greeting"`
	Currency         string `json:"currency"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	Instagram        string `json:"instagram"`
	Facebook         string `json:"facebook"`
	TikTok           string `json:"tiktok"`
	PlaceholderImage string `json:"placeholder_image"`
}
