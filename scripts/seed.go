package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/estatebook/estatebook/backend/internal/adapters/database"
	"github.com/estatebook/estatebook/backend/internal/application/services"
	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/clients/postgres"
	"github.com/estatebook/estatebook/backend/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				payment_records,
				bookings,
				rewards,
				neighbourhoods,
				vacation_homes,
				houses,
				apartments,
				commercial_buildings,
				properties,
				renters,
				agents,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to truncate tables: %v", err)
		}
	}

	propertyRepo := database.NewPropertyAdapter(pgClient)
	neighbourhoodRepo := database.NewNeighbourhoodAdapter(pgClient)
	bookingRepo := database.NewBookingAdapter(pgClient)
	rewardsRepo := database.NewRewardsAdapter(pgClient)
	paymentRepo := database.NewPaymentAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)

	accountService := services.NewAccountService(pgClient, userRepo)
	catalogService := services.NewCatalogService(pgClient, propertyRepo, neighbourhoodRepo, bookingRepo, userRepo, cfg.Booking)
	bookingService := services.NewBookingService(pgClient, bookingRepo, propertyRepo, rewardsRepo, paymentRepo, userRepo, cfg.Booking, nil)

	agentProfile, err := accountService.Register(ctx, services.RegisterRequest{
		Email:      "avery.chen@homestead.example",
		Name:       "Avery Chen",
		Address:    "9 Hill Rd, Denver, CO",
		Role:       entities.RoleAgent,
		JobTitle:   "Senior Agent",
		AgencyName: "Homestead Realty",
	})
	if err != nil {
		log.Fatalf("Failed to seed agent: %v", err)
	}

	renterProfile, err := accountService.Register(ctx, services.RegisterRequest{
		Email:   "riley.okafor@example.com",
		Name:    "Riley Okafor",
		Address: "5 Main St, Austin, TX",
		Role:    entities.RoleRenter,
	})
	if err != nil {
		log.Fatalf("Failed to seed renter: %v", err)
	}

	listings := []struct {
		property      *entities.Property
		neighbourhood *entities.Neighbourhood
	}{
		{
			property: &entities.Property{
				Kind:        entities.KindHouse,
				Description: "Bright corner house with a garden",
				City:        "Austin",
				State:       "TX",
				Details: entities.HouseDetails{
					ResidentialUnit: entities.ResidentialUnit{
						Rooms: 3, Address: "12 Oak Lane", AreaSqFt: 1400, Price: 2500, Available: true,
					},
				},
			},
			neighbourhood: &entities.Neighbourhood{
				CrimeRate: 8.2, School: "Oak Elementary", Hospital: "Austin General",
				Park: "Zilker Park", Mart: "Corner Mart",
			},
		},
		{
			property: &entities.Property{
				Kind:        entities.KindApartment,
				Description: "Two bed apartment near the river",
				City:        "Denver",
				State:       "CO",
				Details: entities.ApartmentDetails{
					ResidentialUnit: entities.ResidentialUnit{
						Rooms: 2, Address: "401 Pine St", AreaSqFt: 900, Price: 1900, Available: true,
					},
					BuildingType: "high-rise",
				},
			},
			neighbourhood: &entities.Neighbourhood{
				CrimeRate: 12.5, School: "Pine Elementary", Hospital: "Denver General",
				Park: "Riverside Park", Mart: "Pine Grocers",
			},
		},
		{
			property: &entities.Property{
				Kind:        entities.KindVacationHome,
				Description: "Lakeside cabin with a private dock",
				City:        "Tahoe City",
				State:       "CA",
				Details: entities.VacationHomeDetails{
					ResidentialUnit: entities.ResidentialUnit{
						Rooms: 4, Address: "77 Shoreline Dr", AreaSqFt: 2100, Price: 5200, Available: true,
					},
				},
			},
			neighbourhood: &entities.Neighbourhood{
				CrimeRate: 3.1, School: "Tahoe Lake School", Hospital: "Tahoe Forest",
				Park: "Commons Beach", Mart: "Shoreline Market",
			},
		},
		{
			property: &entities.Property{
				Kind:        entities.KindCommercialBuilding,
				Description: "Street level retail unit",
				City:        "Austin",
				State:       "TX",
				Details: entities.CommercialBuildingDetails{
					Address: "9 Market Sq", BusinessType: "retail", AreaSqFt: 4000, Price: 9000, Available: true,
				},
			},
			neighbourhood: &entities.Neighbourhood{
				CrimeRate: 15.0, School: "Central High", Hospital: "Austin General",
				Park: "Republic Square", Mart: "Market Grocers",
			},
		},
	}

	var firstListingID string
	for _, seed := range listings {
		listing, err := catalogService.CreateListing(ctx, agentProfile.Agent.ID, seed.property, seed.neighbourhood)
		if err != nil {
			log.Fatalf("Failed to seed listing: %v", err)
		}
		if firstListingID == "" {
			firstListingID = listing.Property.ID
		}
		log.Printf("Seeded listing %s (%s)", listing.Property.ID, listing.Property.Kind)
	}

	booking, err := bookingService.Book(ctx, services.BookingRequest{
		RenterID:    renterProfile.Renter.ID,
		PropertyID:  firstListingID,
		StartDate:   time.Now().AddDate(0, 0, 7),
		PaymentMode: entities.PaymentModeCash,
	})
	if err != nil {
		log.Fatalf("Failed to seed booking: %v", err)
	}
	log.Printf("Seeded booking %s for listing %s", booking.ID, booking.PropertyID)

	log.Println("Seeding complete")
}
