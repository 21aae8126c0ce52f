package dto

type ConsumeInput struct {
	Name     string
	Quantity int
}
