package seed

import "store_rating/internal/model"

const (
	userPassword  = "User123!"
	ownerPassword = "Owner123!"
)

var admins = []model.CreateUserRequest{
	{
		Name:     "System Administrator John Doe",
		Email:    "admin@storerating.com",
		Address:  "123 Admin Street, Administrative District, Admin City, State 12345",
		Password: "Admin123!",
		Role:     model.RoleAdmin,
	},
	{
		Name:     "Senior Administrator Jane Smith",
		Email:    "jane.admin@storerating.com",
		Address:  "456 Administrative Plaza, Management District, Springfield, IL 62703",
		Password: "Admin456!",
		Role:     model.RoleAdmin,
	},
	{
		Name:     "System Manager Robert Brown",
		Email:    "robert.admin@storerating.com",
		Address:  "789 Control Center, Operations Hub, Chicago, IL 60603",
		Password: "Admin789!",
		Role:     model.RoleAdmin,
	},
}

var users = []model.CreateUserRequest{
	{Name: "Alice Johnson Smith Williams", Email: "alice.johnson@email.com", Address: "456 Oak Avenue, Residential Area, Springfield, IL 62701"},
	{Name: "Bob Thompson Brown Davis", Email: "bob.thompson@email.com", Address: "789 Pine Street, Suburb Heights, Chicago, IL 60601"},
	{Name: "Charlie Wilson Garcia Martinez", Email: "charlie.wilson@email.com", Address: "321 Maple Drive, Green Valley, Aurora, IL 60502"},
	{Name: "Diana Rodriguez Lopez Gonzalez", Email: "diana.rodriguez@email.com", Address: "654 Cedar Lane, Hillside Manor, Rockford, IL 61101"},
	{Name: "Edward Lee Park Kim Anderson", Email: "edward.lee@email.com", Address: "987 Birch Boulevard, Riverside Community, Peoria, IL 61602"},
	{Name: "Fiona White Taylor Moore Jackson", Email: "fiona.white@email.com", Address: "147 Elm Court, Sunset Hills, Naperville, IL 60540"},
	{Name: "George Martin Clark Lewis Walker", Email: "george.martin@email.com", Address: "258 Willow Way, Garden District, Joliet, IL 60431"},
	{Name: "Hannah Davis Miller Wilson Young", Email: "hannah.davis@email.com", Address: "369 Spruce Street, Valley View, Elgin, IL 60120"},
}

var stores = []model.CreateStoreRequest{
	{
		Name:         "Pizza Palace Restaurant & Grill",
		Email:        "contact@pizzapalace.com",
		Address:      "100 Business District, Commercial Zone, Chicago, IL 60602",
		OwnerName:    "Michael Restaurant Owner Thompson",
		OwnerEmail:   "michael.owner@pizzapalace.com",
		OwnerAddress: "100 Business District, Commercial Zone, Chicago, IL 60602",
	},
	{
		Name:         "Coffee Haven Specialty Drinks",
		Email:        "hello@coffeehaven.com",
		Address:      "200 Main Street, Downtown Area, Springfield, IL 62702",
		OwnerName:    "Sarah Coffee Shop Manager Williams",
		OwnerEmail:   "sarah.manager@coffeehaven.com",
		OwnerAddress: "200 Main Street, Downtown Area, Springfield, IL 62702",
	},
	{
		Name:         "Tech World Electronics Store",
		Email:        "support@techworld.com",
		Address:      "300 Technology Park, Innovation District, Aurora, IL 60503",
		OwnerName:    "David Electronics Store Owner Johnson",
		OwnerEmail:   "david.owner@techworld.com",
		OwnerAddress: "300 Technology Park, Innovation District, Aurora, IL 60503",
	},
	{
		Name:         "The Bookworm Literary Haven",
		Email:        "info@bookworm.com",
		Address:      "400 Literary Lane, Arts Quarter, Rockford, IL 61102",
		OwnerName:    "Jessica Bookstore Manager Davis",
		OwnerEmail:   "jessica.manager@bookworm.com",
		OwnerAddress: "400 Literary Lane, Arts Quarter, Rockford, IL 61102",
	},
	{
		Name:         "Fitness Hub Health & Wellness",
		Email:        "contact@fitnesshub.com",
		Address:      "500 Health Boulevard, Wellness District, Peoria, IL 61603",
		OwnerName:    "Robert Fitness Center Owner Martinez",
		OwnerEmail:   "robert.owner@fitnesshub.com",
		OwnerAddress: "500 Health Boulevard, Wellness District, Peoria, IL 61603",
	},
	{
		Name:         "Stylista Fashion Boutique Store",
		Email:        "hello@stylista.com",
		Address:      "600 Fashion Avenue, Shopping District, Naperville, IL 60541",
		OwnerName:    "Lisa Fashion Store Owner Anderson",
		OwnerEmail:   "lisa.owner@stylista.com",
		OwnerAddress: "600 Fashion Avenue, Shopping District, Naperville, IL 60541",
	},
	{
		Name:         "Fresh Mart Grocery & Deli",
		Email:        "service@freshmart.com",
		Address:      "700 Market Street, Trade Center, Joliet, IL 60432",
		OwnerName:    "James Grocery Store Manager Wilson",
		OwnerEmail:   "james.manager@freshmart.com",
		OwnerAddress: "700 Market Street, Trade Center, Joliet, IL 60432",
	},
	{
		Name:         "Glamour Beauty Salon & Spa",
		Email:        "appointments@glamour.com",
		Address:      "800 Beauty Boulevard, Style District, Elgin, IL 60121",
		OwnerName:    "Amanda Beauty Salon Owner Garcia",
		OwnerEmail:   "amanda.owner@glamour.com",
		OwnerAddress: "800 Beauty Boulevard, Style District, Elgin, IL 60121",
	},
}

var positiveComments = []string{
	"Excellent service and great quality!",
	"Very satisfied with my experience here.",
	"Good value for money, will come again.",
	"Outstanding customer service and products.",
	"Fantastic place, highly recommended!",
	"Great atmosphere and friendly staff.",
	"Amazing quality and quick service.",
	"Wonderful experience, exceeded expectations!",
	"Impressive selection and helpful staff.",
	"Nice place, will definitely return.",
	"Excellent quality and professional service.",
}

const (
	averageComment = "Average experience, room for improvement."
	lowComment     = "Could be better, but not bad overall."
)
