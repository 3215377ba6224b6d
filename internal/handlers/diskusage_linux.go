// Copyright (C) 2025 the vosim authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

//go:build linux

package handlers

import "golang.org/x/sys/unix"

type diskStats struct {
	Total uint64
	Free  uint64
}

func diskUsage(path string) (diskStats, error) {
	var fs unix.Statfs_t
	if err := unix.Statfs(path, &fs); err != nil {
		return diskStats{}, err
	}
	bsize := uint64(fs.Bsize)
	return diskStats{
		Total: fs.Blocks * bsize,
		Free:  fs.Bavail * bsize,
	}, nil
}
