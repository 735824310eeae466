package domain

// KeyPrefix namespaces every storage key. Overridden from config at startup.
var KeyPrefix = "nestvec:"

// ListingCollection is the collection name listings live under.
const ListingCollection = "listings"
