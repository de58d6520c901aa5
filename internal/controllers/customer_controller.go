package controllers

import "shipment_backoffice/internal/services"

type CustomerController struct {
	*CRUDController[services.CustomerDTO]
}

func NewCustomerController(customers services.CustomerService) *CustomerController {
	return &CustomerController{
		CRUDController: NewCRUDController[services.CustomerDTO](customers, "/api/Customer",
			func(cu *services.CustomerDTO) uint { return cu.ID }),
	}
}
