package models

// Order status values. The store accepts any string; these are the two the
// application writes.
const (
	OrderStatusPending  = "Pending"
	OrderStatusComplete = "Complete"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

type CartLine struct {
	CartItemID string `json:"cartItemId"`
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
}

type Order struct {
	OrderID     string     `json:"orderId"`
	UserID      string     `json:"userId"`
	Items       []CartLine `json:"items"`
	Status      string     `json:"status"`
	TotalAmount float64    `json:"totalAmount"`
	Timestamp   int64      `json:"timestamp"` // epoch millis
}

type Review struct {
	ReviewID  string `json:"reviewId"`
	ProductID string `json:"productId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Timestamp int64  `json:"timestamp"`
}

type User struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	DOB       string `json:"dob"`
	Contact   string `json:"contact"`
	Role      string `json:"role"`
}
