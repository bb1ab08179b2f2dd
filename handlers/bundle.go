package handlers

// HandlerBundle groups every handler the router needs.
type HandlerBundle struct {
	Payment   *PaymentHandler
	Directory *DirectoryHandler
	Auth      *AuthHandler
	Booking   *BookingHandler
	Admin     *AdminHandler
	Pages     *PagesHandler
	Health    *HealthHandler
}
