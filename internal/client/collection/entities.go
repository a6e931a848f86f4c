package collection

import "github.com/iudanet/jobcache/internal/models"

// NewOrders creates the orders collection
func NewOrders(remote Remote[models.Order], deps Deps) *Collection[models.Order] {
	return New(Config[models.Order]{Name: models.CollectionOrders, Remote: remote, Deps: deps})
}

// NewClients creates the clients collection
func NewClients(remote Remote[models.Client], deps Deps) *Collection[models.Client] {
	return New(Config[models.Client]{Name: models.CollectionClients, Remote: remote, Deps: deps})
}

// NewServices creates the services collection
func NewServices(remote Remote[models.Service], deps Deps) *Collection[models.Service] {
	return New(Config[models.Service]{Name: models.CollectionServices, Remote: remote, Deps: deps})
}

// NewWorkers creates the workers collection
func NewWorkers(remote Remote[models.Worker], deps Deps) *Collection[models.Worker] {
	return New(Config[models.Worker]{Name: models.CollectionWorkers, Remote: remote, Deps: deps})
}
