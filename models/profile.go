package models

const DefaultBio = "This is your bio. Click edit to change it."

type UserProfile struct {
	DisplayName string   `json:"displayName"`
	Bio         string   `json:"bio"`
	Wishlist    []string `json:"wishlist"`
	OwnedItems  []string `json:"ownedItems"`
	FCMTokens   []string `json:"fcmTokens,omitempty"`
}

type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PredefinedItems is the fixed catalog written by the seed operation. IDs are
// stable slugs so re-seeding overwrites the same documents.
var PredefinedItems = []Item{
	{ID: "laptop", Name: "Laptop"},
	{ID: "smartphone", Name: "Smartphone"},
	{ID: "headphones", Name: "Headphones"},
	{ID: "coffee-maker", Name: "Coffee Maker"},
	{ID: "backpack", Name: "Backpack"},
	{ID: "desk-chair", Name: "Desk Chair"},
	{ID: "mechanical-keyboard", Name: "Mechanical Keyboard"},
	{ID: "monitor", Name: "4K Monitor"},
	{ID: "mouse", Name: "Wireless Mouse"},
	{ID: "webcam", Name: "HD Webcam"},
}

// DefaultProfile is written the first time an identity visits their profile.
func DefaultProfile(displayName string) UserProfile {
	if displayName == "" {
		displayName = "Anonymous"
	}
	return UserProfile{
		DisplayName: displayName,
		Bio:         DefaultBio,
		Wishlist:    []string{},
		OwnedItems:  []string{},
	}
}

// ProfileFromDocument rebuilds a UserProfile from raw document fields.
func ProfileFromDocument(data map[string]interface{}) UserProfile {
	p := UserProfile{
		DisplayName: stringField(data, "displayName"),
		Bio:         stringField(data, "bio"),
		Wishlist:    stringSliceField(data, "wishlist"),
		OwnedItems:  stringSliceField(data, "ownedItems"),
		FCMTokens:   stringSliceField(data, "fcmTokens"),
	}
	return p
}

func stringSliceField(data map[string]interface{}, key string) []string {
	out := []string{}
	raw, ok := data[key].([]interface{})
	if !ok {
		return out
	}
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
