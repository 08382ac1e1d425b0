package domain

type OrderUser struct {
	Status     UserStatus `json:"status"`
	IngameName string     `json:"ingame_name"`
}

type Order struct {
	Platinum  float64   `json:"platinum"`
	OrderType OrderType `json:"order_type"`
	User      OrderUser `json:"user"`
}

type OrdersResponse struct {
	Payload struct {
		Orders []Order `json:"orders"`
	} `json:"payload"`
}
