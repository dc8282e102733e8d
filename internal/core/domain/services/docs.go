// Package services holds domain rules that span more than one aggregate:
// who may see an order and who may take one.
package services
