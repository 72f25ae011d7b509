package repository

import (
	availabilityRepo "handyhub/database/repository/availability"
	bookingRepo "handyhub/database/repository/booking"
	catalogRepo "handyhub/database/repository/catalog"
	offeringRepo "handyhub/database/repository/offering"
)

// Re-export the AvailabilityRepository interface and constructor.
type AvailabilityRepository = availabilityRepo.AvailabilityRepository

var NewMongoAvailabilityRepo = availabilityRepo.NewMongoAvailabilityRepo

// Re-export the OfferingRepository interface and constructor.
type OfferingRepository = offeringRepo.OfferingRepository

var NewMongoOfferingRepo = offeringRepo.NewMongoOfferingRepo

// Re-export the CatalogRepository interface and constructor.
type CatalogRepository = catalogRepo.CatalogRepository

var NewMongoCatalogRepo = catalogRepo.NewMongoCatalogRepo

// Re-export the BookingRepository interface and constructor.
type BookingRepository = bookingRepo.BookingRepository

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo
