package nodes

import (
	"context"
	"fmt"

	"github.com/tripflow/server/internal/agent/model"
	logx "github.com/tripflow/server/pkg/logger"
)

// HotelSearch looks up hotels for the trip window, going through the cache
// first. It defers to HotelInfo until a guest count is known.
func (n *Nodes) HotelSearch(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	if missing := missingTripFields(s); len(missing) > 0 {
		s.MissingFields = missing
		s.ClearSuspend()
		s.AppendAssistant("I need the trip details before I can look for hotels.")
		return model.RouteSlotCollector, nil
	}

	if s.AccommodationGuests <= 0 {
		return model.RouteHotelInfo, nil
	}

	key := hotelCacheKey(s.Destination, s.StartDate, s.EndDate)
	hotels, hit, err := n.cache.GetHotels(ctx, key)
	if err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("hotel cache read failed, treating as miss")
		hit = false
	}
	if !hit {
		results, serr := n.hotels.SearchHotels(ctx, model.HotelQuery{
			City:     s.Destination,
			CheckIn:  s.StartDate,
			CheckOut: s.EndDate,
			Guests:   s.AccommodationGuests,
		})
		if serr != nil {
			logx.Error().Err(serr).Str("key", key).Msg("hotel search failed")
			s.AppendAssistant("Sorry, I couldn't reach the hotel search right now. Please try again in a bit.")
			return model.RouteEnd, nil
		}
		hotels = enumerateHotels(results)
		if len(hotels) > 0 {
			if cerr := n.cache.SetHotels(ctx, key, hotels); cerr != nil {
				logx.Warn().Err(cerr).Str("key", key).Msg("hotel cache write failed")
			}
		}
	}

	if len(hotels) == 0 {
		s.AppendAssistant(fmt.Sprintf("Sorry, I couldn't find any hotels in %s for those dates.", s.Destination))
		return model.RouteEnd, nil
	}

	s.AvailableHotels = hotels
	s.HotelsProcessed = false
	s.AppendAssistant(fmt.Sprintf("Here are some places to stay in %s:\n%s\n\nReply with the number of the hotel you'd like.",
		s.Destination, renderHotelListing(hotels)))
	return model.RouteEnd, nil
}
