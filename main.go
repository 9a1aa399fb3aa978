package main

import (
	"flag"

	"miniTwitter/cache"
	"miniTwitter/crud"
	"miniTwitter/http"
	"miniTwitter/storage"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to require a database password and silence query logging.")
	flag.Parse()

	// Load configuration from the environment (and a .env file if present).
	config := LoadConfig(*productionBool)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(),
		crud.WithTweet(),
		crud.WithFollow(),
		crud.WithLike(),
		crud.WithMedia(),
	)
	must(err)

	// Set up the media file store and the response cache.
	store, err := storage.NewMediaStore(config.UploadsDir)
	must(err)
	responseCache := cache.New()

	// Set up a webserver.
	server := http.NewServer(
		services.User,
		services.Tweet,
		services.Follow,
		services.Like,
		services.Media,
		store,
		responseCache,
		config.UploadsDir,
	)

	// Serve the app.
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
