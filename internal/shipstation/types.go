package shipstation

// Order is the wire representation of a ShipStation order as returned by the
// /orders endpoint. Only the fields the reconciler consumes are declared.
type Order struct {
	OrderID        int64       `json:"orderId"`
	OrderNumber    string      `json:"orderNumber"`
	OrderKey       string      `json:"orderKey"`
	OrderDate      string      `json:"orderDate"`
	CreateDate     string      `json:"createDate"`
	ModifyDate     string      `json:"modifyDate"`
	OrderStatus    string      `json:"orderStatus"`
	CustomerEmail  string      `json:"customerEmail"`
	BillTo         Address     `json:"billTo"`
	ShipTo         Address     `json:"shipTo"`
	Items          []OrderItem `json:"items"`
	OrderTotal     float64     `json:"orderTotal"`
	ShippingAmount float64     `json:"shippingAmount"`
}

type Address struct {
	Name    string `json:"name"`
	Company string `json:"company"`
}

type OrderItem struct {
	OrderItemID int64        `json:"orderItemId"`
	LineItemKey string       `json:"lineItemKey"`
	SKU         string       `json:"sku"`
	Name        string       `json:"name"`
	Quantity    int          `json:"quantity"`
	UnitPrice   float64      `json:"unitPrice"`
	ImageURL    string       `json:"imageUrl"`
	Options     []ItemOption `json:"options"`
}

type ItemOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ordersPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Pages  int     `json:"pages"`
}

type Store struct {
	StoreID         int    `json:"storeId"`
	StoreName       string `json:"storeName"`
	MarketplaceName string `json:"marketplaceName"`
}

// CredentialCheck is the result of a non-destructive credentials probe.
type CredentialCheck struct {
	Valid              bool    `json:"valid"`
	Error              string  `json:"error,omitempty"`
	ErrorCode          string  `json:"errorCode,omitempty"`
	RateLimitRemaining int     `json:"rateLimitRemaining,omitempty"`
	Stores             []Store `json:"stores,omitempty"`
}
