// Package orders is the column model of e-commerce orders. The model itself
// is generated from order.soa.yaml; this package adds nothing by hand except
// tests.
package orders

//go:generate go run ../../cmd/soagen generate --schema order.soa.yaml --out order_soa.go
