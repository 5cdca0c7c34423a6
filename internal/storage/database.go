// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package storage persists finished results and answers nearest-N queries.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jgray-dev/swv3-sub000/internal/geo"
)

// JitterDegrees is the maximum offset applied to stored coordinates.
const JitterDegrees = 0.0002

// SearchRadiusDegrees is the initial arc radius of the nearest-N bounding box.
const SearchRadiusDegrees = 0.5

var ErrInvalidUpload = errors.New("invalid upload")

// Store is the persistence collaborator of the pipeline.
type Store interface {
	Save(ctx context.Context, upload Upload) (Upload, error)
	Nearest(ctx context.Context, lat, lon float64, n int) ([]Upload, error)
	Close() error
}

type Database struct {
	db       *gorm.DB
	validate *validator.Validate
	jitter   func() float64
}

// Option customizes a Database.
type Option func(*Database)

// WithJitter replaces the random offset source. fn returns values in [-1,1] which are scaled by
// JitterDegrees.
func WithJitter(fn func() float64) Option {
	return func(d *Database) {
		d.jitter = fn
	}
}

// NewDatabase opens or creates the SQLite database at path and migrates the schema.
func NewDatabase(path string, opts ...Option) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.AutoMigrate(&Upload{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{
		db:       db,
		validate: validator.New(),
		jitter:   func() float64 { return rand.Float64()*2 - 1 },
	}
	for _, opt := range opts {
		opt(database)
	}
	return database, nil
}

// Save validates and stores the upload. The coordinate is offset by up to JitterDegrees and an
// image ID is generated when none is set. The stored upload is returned.
func (d *Database) Save(ctx context.Context, upload Upload) (Upload, error) {
	if upload.ImageID == "" {
		upload.ImageID = uuid.New().String()
	}
	if err := d.validate.Struct(upload); err != nil {
		return Upload{}, fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}

	upload.ID = 0
	upload.Latitude = clamp(upload.Latitude+d.jitter()*JitterDegrees, -90, 90)
	upload.Longitude = clamp(upload.Longitude+d.jitter()*JitterDegrees, -180, 180)
	if err := d.db.WithContext(ctx).Create(&upload).Error; err != nil {
		return Upload{}, fmt.Errorf("failed to store upload: %w", err)
	}
	return upload, nil
}

// Nearest returns up to n uploads ordered by great-circle distance from the reference point.
// Candidates are read from a bounding box around the point that doubles in size until it holds
// n uploads within the radius of its inscribed circle.
func (d *Database) Nearest(ctx context.Context, lat, lon float64, n int) ([]Upload, error) {
	ref, err := geo.NewCoordinate(lat, lon)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []Upload{}, nil
	}

	for radius := SearchRadiusDegrees; ; radius *= 2 {
		query := d.db.WithContext(ctx)
		box, bounded := boundingBox(ref, radius)
		if bounded {
			query = query.Where("latitude BETWEEN ? AND ?", box.minLat, box.maxLat).
				Where("longitude BETWEEN ? AND ?", box.minLon, box.maxLon)
		}

		var uploads []Upload
		if err = query.Find(&uploads).Error; err != nil {
			return nil, fmt.Errorf("failed to query uploads: %w", err)
		}

		// SQLite has no trigonometric functions, so the distance ordering happens here.
		distance := make(map[uint]float64, len(uploads))
		for _, u := range uploads {
			distance[u.ID] = ref.Distance(geo.Coordinate{Lat: u.Latitude, Lon: u.Longitude})
		}
		sort.SliceStable(uploads, func(i, j int) bool {
			return distance[uploads[i].ID] < distance[uploads[j].ID]
		})
		if len(uploads) > n {
			uploads = uploads[:n]
		}
		if !bounded {
			return uploads, nil
		}

		maxDistance := geo.EarthRadius * radius * math.Pi / 180
		if len(uploads) == n && distance[uploads[n-1].ID] <= maxDistance {
			return uploads, nil
		}
	}
}

type bounds struct {
	minLat, maxLat float64
	minLon, maxLon float64
}

// boundingBox returns the box enclosing all points within radius degrees of arc around c. It
// reports false when the box would cover a pole or the antimeridian.
func boundingBox(c geo.Coordinate, radius float64) (bounds, bool) {
	if radius >= 90 || c.Lat-radius <= -90 || c.Lat+radius >= 90 {
		return bounds{}, false
	}
	sinRadius := math.Sin(radius * math.Pi / 180)
	cosLat := math.Cos(c.Lat * math.Pi / 180)
	if sinRadius >= cosLat {
		return bounds{}, false
	}
	lonSpan := math.Asin(sinRadius/cosLat) * 180 / math.Pi
	if c.Lon-lonSpan < -180 || c.Lon+lonSpan > 180 {
		return bounds{}, false
	}
	return bounds{
		minLat: c.Lat - radius,
		maxLat: c.Lat + radius,
		minLon: c.Lon - lonSpan,
		maxLon: c.Lon + lonSpan,
	}, true
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
