package models

// Map converters between typed records and the store's native key-value
// representation. FromX returns false for children whose shape is not
// recognizable as the record type; read paths skip those silently.

func (p Product) ToMap() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"imageUrl":    p.ImageURL,
	}
}

func ProductFromMap(m map[string]any) (Product, bool) {
	id, ok := asString(m["id"])
	if !ok || id == "" {
		return Product{}, false
	}
	name, _ := asString(m["name"])
	desc, _ := asString(m["description"])
	price, _ := asFloat(m["price"])
	img, _ := asString(m["imageUrl"])
	return Product{ID: id, Name: name, Description: desc, Price: price, ImageURL: img}, true
}

func (c CartLine) ToMap() map[string]any {
	return map[string]any{
		"cartItemId": c.CartItemID,
		"productId":  c.ProductID,
		"quantity":   c.Quantity,
	}
}

func CartLineFromMap(m map[string]any) (CartLine, bool) {
	pid, ok := asString(m["productId"])
	if !ok || pid == "" {
		return CartLine{}, false
	}
	cid, _ := asString(m["cartItemId"])
	qty, _ := asInt(m["quantity"])
	return CartLine{CartItemID: cid, ProductID: pid, Quantity: qty}, true
}

func (o Order) ToMap() map[string]any {
	items := make([]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, it.ToMap())
	}
	return map[string]any{
		"orderId":     o.OrderID,
		"userId":      o.UserID,
		"items":       items,
		"status":      o.Status,
		"totalAmount": o.TotalAmount,
		"timestamp":   o.Timestamp,
	}
}

func OrderFromMap(m map[string]any) (Order, bool) {
	oid, ok := asString(m["orderId"])
	if !ok || oid == "" {
		return Order{}, false
	}
	uid, _ := asString(m["userId"])
	status, _ := asString(m["status"])
	total, _ := asFloat(m["totalAmount"])
	ts, _ := asInt64(m["timestamp"])

	var items []CartLine
	if raw, ok := m["items"].([]any); ok {
		for _, e := range raw {
			child, ok := e.(map[string]any)
			if !ok {
				continue
			}
			if line, ok := CartLineFromMap(child); ok {
				items = append(items, line)
			}
		}
	}
	return Order{OrderID: oid, UserID: uid, Items: items, Status: status, TotalAmount: total, Timestamp: ts}, true
}

func (r Review) ToMap() map[string]any {
	return map[string]any{
		"reviewId":  r.ReviewID,
		"productId": r.ProductID,
		"userId":    r.UserID,
		"userName":  r.UserName,
		"rating":    r.Rating,
		"comment":   r.Comment,
		"timestamp": r.Timestamp,
	}
}

func ReviewFromMap(m map[string]any) (Review, bool) {
	rid, ok := asString(m["reviewId"])
	if !ok || rid == "" {
		return Review{}, false
	}
	pid, _ := asString(m["productId"])
	uid, _ := asString(m["userId"])
	name, _ := asString(m["userName"])
	rating, _ := asInt(m["rating"])
	comment, _ := asString(m["comment"])
	ts, _ := asInt64(m["timestamp"])
	return Review{ReviewID: rid, ProductID: pid, UserID: uid, UserName: name, Rating: rating, Comment: comment, Timestamp: ts}, true
}

func (u User) ToMap() map[string]any {
	return map[string]any{
		"userId":    u.UserID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"dob":       u.DOB,
		"contact":   u.Contact,
		"role":      u.Role,
	}
}

func UserFromMap(m map[string]any) (User, bool) {
	uid, ok := asString(m["userId"])
	if !ok || uid == "" {
		return User{}, false
	}
	email, _ := asString(m["email"])
	first, _ := asString(m["firstName"])
	last, _ := asString(m["lastName"])
	dob, _ := asString(m["dob"])
	contact, _ := asString(m["contact"])
	role, _ := asString(m["role"])
	return User{UserID: uid, Email: email, FirstName: first, LastName: last, DOB: dob, Contact: contact, Role: role}, true
}

// Numeric values round-trip through JSON as float64 depending on the store
// driver, so the coercions below accept both forms.

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	return int(f), ok
}

func asInt64(v any) (int64, bool) {
	f, ok := asFloat(v)
	return int64(f), ok
}
