package domain

// ViewState selects which projection the front-end shows. It is routing
// only and never persisted.
type ViewState int

const (
	ViewRecommend ViewState = iota
	ViewDashboard
	ViewKitchen
	ViewShopping
	ViewProfile
)

// String returns the route name of the view.
func (v ViewState) String() string {
	switch v {
	case ViewRecommend:
		return "recommend"
	case ViewDashboard:
		return "dashboard"
	case ViewKitchen:
		return "kitchen"
	case ViewShopping:
		return "shopping"
	case ViewProfile:
		return "profile"
	default:
		return "unknown"
	}
}
