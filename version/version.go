/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

//go:generate go run ../tools/version -file current.go

// Package version holds the release information stamped in at build time.
package version

import (
	"fmt"
)

type Version struct {
	Major, Minor, Patch byte
	Build               string
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v Version) FullString() string {
	if v.Build == "" {
		return v.String()
	}
	return fmt.Sprintf("%s-%s", v.String(), v.Build)
}

// Parse reads a major.minor.patch[.build] string. A zero build is dropped.
func Parse(s string) (Version, error) {
	var (
		v     Version
		build string
	)
	n, _ := fmt.Sscanf(s, "%d.%d.%d.%s", &v.Major, &v.Minor, &v.Patch, &build)
	if n < 3 {
		return Version{}, fmt.Errorf("invalid version format: %q", s)
	}
	if build != "0" {
		v.Build = build
	}
	return v, nil
}
